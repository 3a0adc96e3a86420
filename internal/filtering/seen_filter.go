package filtering

import "fmt"

type seenFileFilter struct {
	path string
}

// NewSeenFile creates a filter that drops matches whose posting fingerprint
// is recorded in the exclude file at path.
func NewSeenFile(path string) Filter {
	return &seenFileFilter{path: path}
}

func (f *seenFileFilter) Name() string { return "seen_file" }

func (f *seenFileFilter) IsEnabled() bool { return f.path != "" }

func (f *seenFileFilter) Apply(matches []*Match) ([]*Match, Step, error) {
	initial := len(matches)

	seen, err := GetSeenJobsFromFile(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting seen jobs from file: %w", err)
	}

	known := make(map[string]struct{}, len(seen.Items))
	for _, fp := range seen.Fingerprints() {
		known[fp] = struct{}{}
	}

	kept := make([]*Match, 0, initial)
	for _, m := range matches {
		if _, ok := known[m.Posting.Fingerprint()]; ok {
			continue
		}
		kept = append(kept, m)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
