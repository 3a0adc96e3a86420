package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Posting is the canonical job posting model. Instances are built once via
// FromRaw and treated as immutable afterwards.
//
// Optional string fields use "" for "absent" and serialize as null.
// SalaryMin, SalaryMax and Remote are pointers so that "unknown" stays
// distinct from zero/false.
type Posting struct {
	Title          string
	Company        string
	Location       string
	Description    string
	Requirements   []string
	URL            string
	Source         string
	PostedDate     string
	SalaryMin      *float64
	SalaryMax      *float64
	Currency       string
	EmploymentType string
	Remote         *bool
	Tags           []string
	// Raw keeps the original input verbatim for audit. It never influences
	// derived fields or the fingerprint.
	Raw map[string]any
}

// Alias tables for messy input keys. Order matters: the first present
// alias wins. Lookup is case-normalized, exact key match preferred.
var (
	titleAliases          = []string{"title", "job_title", "position"}
	companyAliases        = []string{"company", "employer", "company_name"}
	locationAliases       = []string{"location", "loc", "job_location"}
	descriptionAliases    = []string{"description", "job_description", "summary"}
	requirementsAliases   = []string{"requirements", "skills", "qualifications"}
	urlAliases            = []string{"url", "job_url", "apply_url", "link"}
	sourceAliases         = []string{"source", "provider"}
	postedDateAliases     = []string{"posted_date", "date_posted"}
	employmentTypeAliases = []string{"employment_type"}
)

var requirementsSplitRe = regexp.MustCompile(`[;\n]+`)

// FromRaw normalizes a raw job posting map with arbitrary or aliased keys
// into a canonical Posting. The original map is retained in Raw verbatim.
func FromRaw(raw map[string]any) (*Posting, error) {
	if raw == nil {
		return nil, errors.New("raw job posting is required")
	}

	p := &Posting{
		Title:        normalizeString(firstString(raw, titleAliases)),
		Company:      normalizeString(firstString(raw, companyAliases)),
		Location:     normalizeString(firstString(raw, locationAliases)),
		Description:  normalizeString(firstString(raw, descriptionAliases)),
		Requirements: []string{},
		Tags:         []string{},
		Raw:          raw,
	}

	if v, ok := firstValue(raw, requirementsAliases); ok {
		p.Requirements = normalizeRequirements(v)
	}

	p.URL = normalizeString(firstString(raw, urlAliases))
	p.Source = normalizeString(firstString(raw, sourceAliases))
	p.PostedDate = normalizeString(firstString(raw, postedDateAliases))
	p.EmploymentType = normalizeString(firstString(raw, employmentTypeAliases))

	p.SalaryMin, p.SalaryMax, p.Currency = normalizeSalary(raw)

	if v, ok := firstValue(raw, []string{"remote"}); ok && v != nil {
		remote := truthy(v)
		p.Remote = &remote
	}

	if v, ok := firstValue(raw, []string{"tags"}); ok {
		p.Tags = normalizeTags(v)
	}

	return p, nil
}

// ToMap converts the posting to a JSON-serializable map. The raw key is
// present only when the original input was retained.
func (p *Posting) ToMap() map[string]any {
	m := map[string]any{
		"title":           p.Title,
		"company":         p.Company,
		"location":        p.Location,
		"description":     p.Description,
		"requirements":    append([]string{}, p.Requirements...),
		"url":             nullableString(p.URL),
		"source":          nullableString(p.Source),
		"posted_date":     nullableString(p.PostedDate),
		"salary_min":      nullableFloat(p.SalaryMin),
		"salary_max":      nullableFloat(p.SalaryMax),
		"currency":        nullableString(p.Currency),
		"employment_type": nullableString(p.EmploymentType),
		"remote":          nullableBool(p.Remote),
		"tags":            append([]string{}, p.Tags...),
	}

	if p.Raw != nil {
		m["raw"] = p.Raw
	}

	return m
}

// firstValue returns the first value matching one of the aliases. For every
// alias an exact key match is tried first, then a case-folded scan over the
// map keys in sorted order so that lookups stay deterministic.
func firstValue(raw map[string]any, aliases []string) (any, bool) {
	var sortedKeys []string
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok {
			return v, true
		}

		if sortedKeys == nil {
			sortedKeys = make([]string, 0, len(raw))
			for k := range raw {
				sortedKeys = append(sortedKeys, k)
			}
			sort.Strings(sortedKeys)
		}

		for _, k := range sortedKeys {
			if strings.EqualFold(k, alias) {
				return raw[k], true
			}
		}
	}
	return nil, false
}

func firstString(raw map[string]any, aliases []string) string {
	v, ok := firstValue(raw, aliases)
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// normalizeString trims the value and collapses internal whitespace runs
// into single spaces.
func normalizeString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeRequirements(v any) []string {
	var items []string
	switch val := v.(type) {
	case string:
		items = requirementsSplitRe.Split(val, -1)
	case []string:
		items = val
	case []any:
		for _, item := range val {
			items = append(items, stringify(item))
		}
	default:
		return []string{}
	}

	normalized := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

func normalizeTags(v any) []string {
	var items []string
	switch val := v.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, item := range val {
			items = append(items, stringify(item))
		}
	default:
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		tag := strings.ToLower(strings.TrimSpace(item))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}

var salaryCleanRe = regexp.MustCompile(`[^0-9.]`)

// normalizeSalary reads salary information from a nested salary_range map
// when present, falling back to flat salary_min/salary_max/currency keys.
func normalizeSalary(raw map[string]any) (*float64, *float64, string) {
	if nested, ok := raw["salary_range"].(map[string]any); ok {
		currency := ""
		if c := nested["currency"]; c != nil && truthy(c) {
			currency = strings.TrimSpace(stringify(c))
		}
		return parseSalaryValue(nested["min"]), parseSalaryValue(nested["max"]), currency
	}

	currency := ""
	if c := raw["currency"]; c != nil && truthy(c) {
		currency = strings.TrimSpace(stringify(c))
	}
	return parseSalaryValue(raw["salary_min"]), parseSalaryValue(raw["salary_max"]), currency
}

// parseSalaryValue accepts numbers and strings like "$80,000" or "€75,000".
// Currency symbols and thousands separators are stripped before parsing.
// Non-numeric content yields nil.
func parseSalaryValue(v any) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return &val
	case int:
		f := float64(val)
		return &f
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return &f
		}
		return nil
	case string:
		cleaned := salaryCleanRe.ReplaceAllString(val, "")
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// truthy mirrors loose-data truthiness: empty strings, zero numbers and
// empty collections are false, everything else present is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
