// Package candidate normalizes loosely-typed candidate data into a
// canonical profile and derives job search queries from it. The matcher
// consumes the loose map form produced by Profile.ToMap.
package candidate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Profile is the canonical candidate model built once via FromMap.
type Profile struct {
	FullName           string
	Email              string
	Phone              string
	Location           string
	DesiredTitles      []string
	AlternateTitles    []string
	Skills             []string
	SkillsYears        map[string]float64
	YearsExperience    *float64
	WorkAuthorization  string
	PreferredLocations []string
	RemoteOK           *bool
	SponsorshipNeeded  *bool
	ResumeText         string
	Raw                map[string]any
}

// Ordered alias tables for messy candidate input.
var (
	fullNameAliases    = []string{"full_name", "name", "candidate_name"}
	emailAliases       = []string{"email", "email_address"}
	phoneAliases       = []string{"phone", "phone_number", "mobile"}
	locationAliases    = []string{"location", "city", "state"}
	titlesAliases      = []string{"desired_titles", "target_roles", "roles"}
	skillsAliases      = []string{"skills", "primary_skills", "tech_stack"}
	yearsAliases       = []string{"years_experience", "experience_years"}
	workAuthAliases    = []string{"work_authorization", "visa_status"}
	prefLocAliases     = []string{"preferred_locations", "preferred_location", "desired_locations"}
	remoteOKAliases    = []string{"remote_ok", "remote", "remote_preference"}
	sponsorshipAliases = []string{"sponsorship_needed", "needs_sponsorship", "visa_sponsorship"}
	resumeAliases      = []string{"resume_text", "resume"}
)

var listSplitRe = regexp.MustCompile(`[,\n]+`)

// FromMap builds a Profile from a raw candidate map with aliased keys.
// Missing fields get neutral defaults; the input map is kept for audit.
func FromMap(raw map[string]any) *Profile {
	if raw == nil {
		raw = map[string]any{}
	}

	p := &Profile{
		FullName:          normalizeString(firstValue(raw, fullNameAliases)),
		Email:             normalizeString(firstValue(raw, emailAliases)),
		Phone:             normalizeString(firstValue(raw, phoneAliases)),
		Location:          normalizeString(firstValue(raw, locationAliases)),
		WorkAuthorization: normalizeString(firstValue(raw, workAuthAliases)),
		ResumeText:        normalizeString(firstValue(raw, resumeAliases)),
		Raw:               raw,
	}

	p.DesiredTitles = normalizeList(firstValue(raw, titlesAliases))
	p.AlternateTitles = normalizeList(raw["alternate_titles"])
	p.PreferredLocations = normalizeList(firstValue(raw, prefLocAliases))

	skillsRaw := firstValue(raw, skillsAliases)
	p.SkillsYears = normalizeSkillsYears(raw["skills_years"])
	if skillsRaw == nil && len(p.SkillsYears) > 0 {
		names := make([]string, 0, len(p.SkillsYears))
		for skill := range p.SkillsYears {
			names = append(names, skill)
		}
		// Map iteration order is random; the fallback skill list must be stable.
		sort.Strings(names)
		skillsRaw = names
	}
	p.Skills = normalizeList(skillsRaw)

	p.YearsExperience = parseFloat(firstValue(raw, yearsAliases))

	if v := firstValue(raw, remoteOKAliases); v != nil {
		remote := parseBool(v)
		p.RemoteOK = &remote
	}
	if v := firstValue(raw, sponsorshipAliases); v != nil {
		needed := parseBool(v)
		p.SponsorshipNeeded = &needed
	}

	return p
}

// ToMap produces the loose candidate map the matcher consumes.
func (p *Profile) ToMap() map[string]any {
	m := map[string]any{
		"full_name":           p.FullName,
		"email":               p.Email,
		"phone":               p.Phone,
		"location":            p.Location,
		"desired_titles":      append([]string{}, p.DesiredTitles...),
		"alternate_titles":    append([]string{}, p.AlternateTitles...),
		"skills":              append([]string{}, p.Skills...),
		"work_authorization":  p.WorkAuthorization,
		"preferred_locations": append([]string{}, p.PreferredLocations...),
		"resume_text":         p.ResumeText,
	}

	if len(p.SkillsYears) > 0 {
		years := make(map[string]any, len(p.SkillsYears))
		for skill, y := range p.SkillsYears {
			years[skill] = y
		}
		m["skills_years"] = years
	}
	if p.YearsExperience != nil {
		m["years_experience"] = *p.YearsExperience
	}
	if p.RemoteOK != nil {
		m["remote_ok"] = *p.RemoteOK
	}
	if p.SponsorshipNeeded != nil {
		m["sponsorship_needed"] = *p.SponsorshipNeeded
	}

	return m
}

func firstValue(raw map[string]any, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return v
		}
	}
	return nil
}

func normalizeString(v any) string {
	if v == nil {
		return ""
	}
	return strings.Join(strings.Fields(stringify(v)), " ")
}

// normalizeList coerces a comma/newline separated string or a list into
// trimmed strings, deduplicated case-insensitively preserving order.
func normalizeList(v any) []string {
	var items []string
	switch val := v.(type) {
	case nil:
		return []string{}
	case string:
		items = listSplitRe.Split(val, -1)
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
		cleaned := strings.Join(strings.Fields(item), " ")
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, cleaned)
	}
	return normalized
}

func normalizeSkillsYears(v any) map[string]float64 {
	out := make(map[string]float64)
	switch val := v.(type) {
	case map[string]any:
		for skill, years := range val {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			if f := parseFloat(years); f != nil {
				out[skill] = *f
			}
		}
	case map[string]float64:
		for skill, years := range val {
			if skill = strings.TrimSpace(skill); skill != "" {
				out[skill] = years
			}
		}
	case map[string]int:
		for skill, years := range val {
			if skill = strings.TrimSpace(skill); skill != "" {
				out[skill] = float64(years)
			}
		}
	}
	return out
}

func parseFloat(v any) *float64 {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return &val
	case int:
		f := float64(val)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func parseBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(val) {
		case "true", "yes", "1":
			return true
		}
		return false
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return v != nil
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
