package cmd

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuildSources(t *testing.T) {
	sources, err := buildSources([]*SourceConfig{
		{Name: "fixtures", Type: "file", Path: "testdata/jobs.json"},
		{Name: "board", Type: "http", URL: "https://jobs.example.com/api"},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name() != "fixtures" || sources[1].Name() != "board" {
		t.Fatalf("unexpected source names: %s, %s", sources[0].Name(), sources[1].Name())
	}
}

func TestBuildSourcesValidation(t *testing.T) {
	cases := []struct {
		name    string
		config  *SourceConfig
		errPart string
	}{
		{"missing name", &SourceConfig{Type: "file", Path: "x"}, "name is required"},
		{"file without path", &SourceConfig{Name: "f", Type: "file"}, "path is required"},
		{"http without url", &SourceConfig{Name: "h", Type: "http"}, "url is required"},
		{"unsupported type", &SourceConfig{Name: "x", Type: "carrier-pigeon"}, "unsupported type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildSources([]*SourceConfig{tc.config}, zap.NewNop())
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("expected %q in error, got: %v", tc.errPart, err)
			}
		})
	}
}
