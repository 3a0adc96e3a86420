package filtering

import (
	"fmt"

	"github.com/spigell/jobradar/internal/match"
)

// decisionRank orders decisions from worst to best for threshold checks.
var decisionRank = map[match.Decision]int{
	match.DecisionReject:      0,
	match.DecisionWeakFit:     1,
	match.DecisionPossibleFit: 2,
	match.DecisionStrongFit:   3,
}

type minimumDecisionFilter struct {
	minimum match.Decision
}

// NewMinimumDecision creates a filter that drops matches whose decision
// ranks below the given bucket. An empty minimum disables the filter.
func NewMinimumDecision(minimum match.Decision) Filter {
	return &minimumDecisionFilter{minimum: minimum}
}

func (f *minimumDecisionFilter) Name() string { return "minimum_decision" }

func (f *minimumDecisionFilter) IsEnabled() bool { return f.minimum != "" }

func (f *minimumDecisionFilter) Apply(matches []*Match) ([]*Match, Step, error) {
	initial := len(matches)

	threshold, ok := decisionRank[f.minimum]
	if !ok {
		return nil, Step{}, fmt.Errorf("unknown decision %q", f.minimum)
	}

	kept := make([]*Match, 0, initial)
	for _, m := range matches {
		if decisionRank[m.Result.Decision] < threshold {
			continue
		}
		kept = append(kept, m)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
