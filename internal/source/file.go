// Package source provides job feed adapters implementing the aggregator's
// Source contract: a file adapter for fixtures and exports, an HTTP adapter
// for paged JSON APIs, and a static in-memory adapter for tests.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// File reads raw job postings from a JSON file. It accepts either a bare
// list or an object wrapper with a "jobs" key. The query is ignored; all
// jobs in the file are returned and filtering happens downstream.
type File struct {
	name string
	path string
}

func NewFile(name, path string) *File {
	return &File{name: name, path: path}
}

func (f *File) Name() string { return f.name }

func (f *File) FetchRawJobs(_ context.Context, _ map[string]any) (any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading job data file: %w", err)
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in job data file %s: %w", f.path, err)
	}

	switch v := payload.(type) {
	case []any:
		return v, nil
	case map[string]any:
		jobs, ok := v["jobs"]
		if !ok {
			return nil, fmt.Errorf("expected JSON list or object with a jobs key in %s", f.path)
		}
		list, ok := jobs.([]any)
		if !ok {
			return nil, fmt.Errorf("expected jobs key to contain a list in %s, got %T", f.path, jobs)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("expected JSON list or object with a jobs key in %s, got %T", f.path, payload)
	}
}
