package source

import "context"

// Static serves a fixed in-memory list of raw postings. Useful for
// fixtures, demos and tests.
type Static struct {
	name string
	jobs []map[string]any
}

func NewStatic(name string, jobs []map[string]any) *Static {
	return &Static{name: name, jobs: jobs}
}

func (s *Static) Name() string { return s.name }

func (s *Static) FetchRawJobs(_ context.Context, _ map[string]any) (any, error) {
	items := make([]any, len(s.jobs))
	for i, raw := range s.jobs {
		items[i] = raw
	}
	return items, nil
}
