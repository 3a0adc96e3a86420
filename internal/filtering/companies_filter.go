package filtering

import "strings"

type companiesFilter struct {
	companies []string
}

// NewExcludedCompanies creates a filter that drops matches whose posting
// company is on the exclude list. Comparison is case-insensitive.
func NewExcludedCompanies(companies []string) Filter {
	return &companiesFilter{companies: companies}
}

func (f *companiesFilter) Name() string { return "excluded_companies" }

func (f *companiesFilter) IsEnabled() bool { return len(f.companies) > 0 }

func (f *companiesFilter) Apply(matches []*Match) ([]*Match, Step, error) {
	initial := len(matches)

	kept := make([]*Match, 0, initial)
	for _, m := range matches {
		if f.excluded(m.Posting.Company) {
			continue
		}
		kept = append(kept, m)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *companiesFilter) excluded(company string) bool {
	for _, excluded := range f.companies {
		if strings.EqualFold(company, excluded) {
			return true
		}
	}
	return false
}
