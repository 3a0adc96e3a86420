// Package filtering runs scored matches through a sequential pipeline of
// filter steps: excluded companies, previously handled fingerprints, and a
// minimum decision threshold.
package filtering

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobradar/internal/job"
	"github.com/spigell/jobradar/internal/match"
)

// Match pairs a posting with its scoring outcome as it moves through the
// pipeline.
type Match struct {
	Posting *job.Posting
	Result  *match.Result
}

// Filter represents a single filtering step applied to scored matches.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(matches []*Match) ([]*Match, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Pipeline executes filters sequentially, logging per-step statistics.
type Pipeline struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Run applies every enabled filter in order and returns the surviving
// matches. A step failure aborts the run with the step's name attached.
func (p *Pipeline) Run(matches []*Match) ([]*Match, error) {
	for _, step := range p.steps {
		if !step.IsEnabled() {
			p.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(matches)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		matches = next
	}

	return matches, nil
}
