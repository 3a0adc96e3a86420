package aggregator

import "fmt"

const maxExcerptLen = 200

// ContractViolationError reports a source that broke the Source contract by
// returning a non-list payload or a non-map element. It is fatal in
// Aggregate and captured as a source-level IngestError in
// AggregateWithErrors.
type ContractViolationError struct {
	Source string
	Detail string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("source %q: %s", e.Source, e.Detail)
}

// IngestError is one captured failure from AggregateWithErrors. Index is
// nil for source-level fetch/contract failures and the position inside the
// source's raw list for per-item failures. RawExcerpt carries the first
// 200 characters of the stringified offending item when one exists.
type IngestError struct {
	Source     string  `json:"source"`
	Index      *int    `json:"index"`
	Message    string  `json:"error"`
	RawExcerpt *string `json:"raw_excerpt"`
}

func sourceError(source string, err error) IngestError {
	return IngestError{Source: source, Message: err.Error()}
}

func itemError(source string, index int, err error, item any) IngestError {
	excerpt := fmt.Sprintf("%v", item)
	if len(excerpt) > maxExcerptLen {
		excerpt = excerpt[:maxExcerptLen]
	}
	return IngestError{
		Source:     source,
		Index:      &index,
		Message:    err.Error(),
		RawExcerpt: &excerpt,
	}
}
