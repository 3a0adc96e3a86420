// Package ai defines the optional advisor layer that consumes scored
// matches. Advisors never feed back into scoring; the deterministic core
// stays authoritative.
package ai

import (
	"context"

	"github.com/spigell/jobradar/internal/job"
	"github.com/spigell/jobradar/internal/match"
)

// Advice is a drafted application message with the model's commentary on
// the match.
type Advice struct {
	Message    string  `json:"message"`
	Commentary string  `json:"commentary"`
	Confidence float64 `json:"confidence"`
	Raw        string  `json:"raw,omitempty"`
}

// Advisor drafts application advice for a scored candidate/job pair.
type Advisor interface {
	Advise(ctx context.Context, candidate map[string]any, posting *job.Posting, result *match.Result) (*Advice, error)
}
