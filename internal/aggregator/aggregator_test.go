package aggregator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSource struct {
	name    string
	payload any
	err     error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchRawJobs(_ context.Context, _ map[string]any) (any, error) {
	return f.payload, f.err
}

func sameJob() map[string]any {
	return map[string]any{
		"title":   "Engineer",
		"company": "Acme",
	}
}

func TestAggregateDeduplicatesAcrossSources(t *testing.T) {
	agg := New(
		&fakeSource{name: "a", payload: []any{sameJob()}},
		&fakeSource{name: "b", payload: []any{sameJob()}},
		&fakeSource{name: "c", payload: []any{sameJob()}},
	)

	jobs, err := agg.Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after dedup, got %d", len(jobs))
	}

	// First occurrence wins, including its stamped provenance.
	if jobs[0].Source != "a" {
		t.Fatalf("expected source of first occurrence, got %q", jobs[0].Source)
	}
}

func TestAggregatePreservesOrder(t *testing.T) {
	agg := New(
		&fakeSource{name: "a", payload: []any{
			map[string]any{"title": "First", "company": "X"},
			map[string]any{"title": "Second", "company": "X"},
		}},
		&fakeSource{name: "b", payload: []any{
			map[string]any{"title": "First", "company": "X"},
			map[string]any{"title": "Third", "company": "X"},
		}},
	)

	jobs, err := agg.Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	titles := make([]string, 0, len(jobs))
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}

	want := []string{"First", "Second", "Third"}
	if len(titles) != len(want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, titles)
		}
	}
}

func TestAggregateFetchFailureIsFatal(t *testing.T) {
	agg := New(
		&fakeSource{name: "ok", payload: []any{sameJob()}},
		&fakeSource{name: "broken", err: errors.New("connection refused")},
	)

	jobs, err := agg.Aggregate(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if jobs != nil {
		t.Fatalf("expected no jobs on failure, got %d", len(jobs))
	}
	if !strings.Contains(err.Error(), `source "broken"`) {
		t.Fatalf("expected source name in error, got: %v", err)
	}
}

func TestAggregateContractViolation(t *testing.T) {
	agg := New(&fakeSource{name: "weird", payload: map[string]any{"not": "a list"}})

	_, err := agg.Aggregate(context.Background(), nil)

	var violation *ContractViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected contract violation, got: %v", err)
	}
	if violation.Source != "weird" {
		t.Fatalf("unexpected source: %q", violation.Source)
	}
}

func TestAggregateNonMapEntryIsViolation(t *testing.T) {
	agg := New(&fakeSource{name: "weird", payload: []any{"just a string"}})

	var violation *ContractViolationError
	if _, err := agg.Aggregate(context.Background(), nil); !errors.As(err, &violation) {
		t.Fatalf("expected contract violation, got: %v", err)
	}
}

func TestAggregateWithErrorsIsolatesSourceFailures(t *testing.T) {
	agg := New(
		&fakeSource{name: "a", payload: []any{map[string]any{"title": "One", "company": "X"}}},
		&fakeSource{name: "down", err: errors.New("timeout")},
		&fakeSource{name: "b", payload: []any{map[string]any{"title": "Two", "company": "X"}}},
	)

	jobs, ingestErrors := agg.AggregateWithErrors(context.Background(), nil)

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if len(ingestErrors) != 1 {
		t.Fatalf("expected 1 ingest error, got %d", len(ingestErrors))
	}

	e := ingestErrors[0]
	if e.Source != "down" {
		t.Fatalf("unexpected source: %q", e.Source)
	}
	if e.Index != nil {
		t.Fatalf("source-level failure must have nil index, got %d", *e.Index)
	}
	if e.RawExcerpt != nil {
		t.Fatalf("source-level failure must have no excerpt")
	}
}

func TestAggregateWithErrorsIsolatesBadItems(t *testing.T) {
	agg := New(&fakeSource{name: "mixed", payload: []any{
		map[string]any{"title": "Good", "company": "X"},
		"garbage entry",
		map[string]any{"title": "Also good", "company": "X"},
	}})

	jobs, ingestErrors := agg.AggregateWithErrors(context.Background(), nil)

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if len(ingestErrors) != 1 {
		t.Fatalf("expected 1 ingest error, got %d", len(ingestErrors))
	}

	e := ingestErrors[0]
	if e.Index == nil || *e.Index != 1 {
		t.Fatalf("expected index 1, got %v", e.Index)
	}
	if e.RawExcerpt == nil || !strings.Contains(*e.RawExcerpt, "garbage") {
		t.Fatalf("expected raw excerpt of the offending item")
	}
}

func TestAggregateWithErrorsTruncatesExcerpt(t *testing.T) {
	agg := New(&fakeSource{name: "mixed", payload: []any{strings.Repeat("x", 500)}})

	_, ingestErrors := agg.AggregateWithErrors(context.Background(), nil)

	if len(ingestErrors) != 1 {
		t.Fatalf("expected 1 ingest error, got %d", len(ingestErrors))
	}
	if e := ingestErrors[0]; e.RawExcerpt == nil || len(*e.RawExcerpt) != maxExcerptLen {
		t.Fatalf("expected excerpt capped at %d characters", maxExcerptLen)
	}
}

func TestSourceStampingDoesNotMutateInput(t *testing.T) {
	raw := map[string]any{"title": "Engineer", "company": "Acme"}
	agg := New(&fakeSource{name: "feed", payload: []any{raw}})

	jobs, err := agg.Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if jobs[0].Source != "feed" {
		t.Fatalf("expected stamped source, got %q", jobs[0].Source)
	}
	if _, ok := raw["source"]; ok {
		t.Fatalf("caller's map must not be mutated")
	}
}

func TestSourceStampingKeepsExistingSource(t *testing.T) {
	agg := New(&fakeSource{name: "feed", payload: []any{
		map[string]any{"title": "Engineer", "company": "Acme", "source": "origin"},
		map[string]any{"title": "Other", "company": "Acme", "source": ""},
	}})

	jobs, err := agg.Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if jobs[0].Source != "origin" {
		t.Fatalf("existing source must be kept, got %q", jobs[0].Source)
	}
	if jobs[1].Source != "feed" {
		t.Fatalf("empty source must be stamped, got %q", jobs[1].Source)
	}
}

func TestAggregateAcceptsTypedLists(t *testing.T) {
	agg := New(&fakeSource{name: "typed", payload: []map[string]any{
		{"title": "Engineer", "company": "Acme"},
	}})

	jobs, err := agg.Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
}
