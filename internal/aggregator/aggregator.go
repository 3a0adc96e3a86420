// Package aggregator orchestrates fetching raw job postings from multiple
// sources, normalizes them into canonical postings and deduplicates them by
// content fingerprint.
//
// The walk is strictly sequential and deterministic: sources are called in
// the order given, within-source order is preserved, and the first posting
// seen for a fingerprint wins. Deduplication removes items but never
// reorders survivors. The package performs no logging, retries or I/O of
// its own; everything opaque (network, files) lives behind Source.
package aggregator

import (
	"context"
	"fmt"

	"github.com/spigell/jobradar/internal/job"
)

// Source is the capability contract consumed by the aggregator. Name must
// be stable and non-empty. FetchRawJobs returns the source's raw payload;
// the aggregator validates its shape, so loosely-typed adapters (JSON feeds
// decoded into any) plug in directly. The query map is opaque and
// source-specific; sources may ignore it.
type Source interface {
	Name() string
	FetchRawJobs(ctx context.Context, query map[string]any) (any, error)
}

// Aggregator fans job postings in from a fixed, read-only list of sources.
// All per-call state is local, so a single instance can be invoked
// repeatedly or from independent call sites.
type Aggregator struct {
	sources []Source
}

func New(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// Aggregate fetches, normalizes and deduplicates postings from all sources.
// It is all-or-nothing: the first fetch failure, non-list payload,
// non-map element or normalization failure aborts the whole call. Use
// AggregateWithErrors for bulk ingestion where partial success is fine.
func (a *Aggregator) Aggregate(ctx context.Context, query map[string]any) ([]*job.Posting, error) {
	seen := make(map[string]struct{})
	jobs := make([]*job.Posting, 0)

	for _, src := range a.sources {
		result, err := src.FetchRawJobs(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("source %q: fetch: %w", src.Name(), err)
		}

		items, err := coerceList(result)
		if err != nil {
			return nil, &ContractViolationError{Source: src.Name(), Detail: err.Error()}
		}

		for _, item := range items {
			raw, ok := item.(map[string]any)
			if !ok {
				return nil, &ContractViolationError{
					Source: src.Name(),
					Detail: fmt.Sprintf("returned non-map entry: %T", item),
				}
			}

			posting, err := job.FromRaw(stampSource(raw, src.Name()))
			if err != nil {
				return nil, fmt.Errorf("source %q: normalize: %w", src.Name(), err)
			}

			fp := posting.Fingerprint()
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			jobs = append(jobs, posting)
		}
	}

	return jobs, nil
}

// AggregateWithErrors runs the same algorithm but isolates failures: a
// source-level fetch or contract failure is recorded with a nil index and
// that source is skipped; a per-item failure is recorded with the item's
// index and a raw excerpt, and processing continues. Data-shape problems
// never abort the call.
func (a *Aggregator) AggregateWithErrors(ctx context.Context, query map[string]any) ([]*job.Posting, []IngestError) {
	seen := make(map[string]struct{})
	jobs := make([]*job.Posting, 0)
	ingestErrors := make([]IngestError, 0)

	for _, src := range a.sources {
		name := src.Name()

		result, err := src.FetchRawJobs(ctx, query)
		if err != nil {
			ingestErrors = append(ingestErrors, sourceError(name, err))
			continue
		}

		items, err := coerceList(result)
		if err != nil {
			ingestErrors = append(ingestErrors, sourceError(name, err))
			continue
		}

		for idx, item := range items {
			raw, ok := item.(map[string]any)
			if !ok {
				ingestErrors = append(ingestErrors, itemError(name, idx, fmt.Errorf("entry is not a map: %T", item), item))
				continue
			}

			posting, err := job.FromRaw(stampSource(raw, name))
			if err != nil {
				ingestErrors = append(ingestErrors, itemError(name, idx, err, item))
				continue
			}

			fp := posting.Fingerprint()
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			jobs = append(jobs, posting)
		}
	}

	return jobs, ingestErrors
}

// coerceList validates that a source payload is a list of items.
func coerceList(result any) ([]any, error) {
	switch v := result.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = item
		}
		return items, nil
	default:
		return nil, fmt.Errorf("returned non-list: %T", result)
	}
}

// stampSource sets provenance on a copy of the raw map when no truthy
// source key is present. The caller's map is never mutated.
func stampSource(raw map[string]any, name string) map[string]any {
	if hasSource(raw) {
		return raw
	}

	stamped := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		stamped[k] = v
	}
	stamped["source"] = name
	return stamped
}

func hasSource(raw map[string]any) bool {
	v, ok := raw["source"]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return true
	}
}
