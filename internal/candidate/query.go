package candidate

import "strings"

// BuildQuery turns a normalized profile into the opaque query map handed to
// job sources: desired plus alternate titles (deduplicated, order kept),
// preferred locations, remote preference, skill keywords and an optional
// employment type preference.
func BuildQuery(p *Profile) map[string]any {
	titles := make([]string, 0, len(p.DesiredTitles)+len(p.AlternateTitles))
	seen := make(map[string]struct{})
	for _, title := range append(append([]string{}, p.DesiredTitles...), p.AlternateTitles...) {
		key := strings.ToLower(title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
	}

	keywords := make([]string, 0, len(p.Skills))
	seenKW := make(map[string]struct{})
	for _, skill := range p.Skills {
		key := strings.ToLower(skill)
		if _, ok := seenKW[key]; ok {
			continue
		}
		seenKW[key] = struct{}{}
		keywords = append(keywords, skill)
	}

	query := map[string]any{
		"titles":    titles,
		"locations": append([]string{}, p.PreferredLocations...),
		"remote_ok": p.RemoteOK != nil && *p.RemoteOK,
		"keywords":  keywords,
	}

	if emp := employmentPreference(p.Raw); emp != "" {
		query["employment_type"] = emp
	}

	return query
}

func employmentPreference(raw map[string]any) string {
	for _, key := range []string{"employment_type", "employment_type_preference"} {
		if v, ok := raw[key]; ok && v != nil {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
