package job

import (
	"reflect"
	"testing"
)

func TestFromRawAliases(t *testing.T) {
	raw := map[string]any{
		"job_title":       "Backend Engineer",
		"employer":        "Acme",
		"loc":             "Berlin",
		"job_description": "Build services",
		"job_url":         "https://example.com/jobs/1",
		"provider":        "boardx",
		"date_posted":     "2024-05-01",
	}

	p, err := FromRaw(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Title != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", p.Title)
	}
	if p.Company != "Acme" {
		t.Fatalf("unexpected company: %q", p.Company)
	}
	if p.Location != "Berlin" {
		t.Fatalf("unexpected location: %q", p.Location)
	}
	if p.Description != "Build services" {
		t.Fatalf("unexpected description: %q", p.Description)
	}
	if p.URL != "https://example.com/jobs/1" {
		t.Fatalf("unexpected url: %q", p.URL)
	}
	if p.Source != "boardx" {
		t.Fatalf("unexpected source: %q", p.Source)
	}
	if p.PostedDate != "2024-05-01" {
		t.Fatalf("unexpected posted date: %q", p.PostedDate)
	}
}

func TestFromRawAliasPrecedence(t *testing.T) {
	p, err := FromRaw(map[string]any{
		"title":    "Primary",
		"position": "Secondary",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Title != "Primary" {
		t.Fatalf("expected first alias to win, got %q", p.Title)
	}
}

func TestFromRawCaseInsensitiveKeys(t *testing.T) {
	p, err := FromRaw(map[string]any{
		"Title":   "Engineer",
		"COMPANY": "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Title != "Engineer" {
		t.Fatalf("unexpected title: %q", p.Title)
	}
	if p.Company != "Acme" {
		t.Fatalf("unexpected company: %q", p.Company)
	}
}

func TestFromRawCollapsesWhitespace(t *testing.T) {
	p, err := FromRaw(map[string]any{
		"title":   "  Senior\n\t Go   Engineer  ",
		"company": " Acme \r\n Corp ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Title != "Senior Go Engineer" {
		t.Fatalf("unexpected title: %q", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Fatalf("unexpected company: %q", p.Company)
	}
}

func TestFromRawRequirements(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  []string
	}{
		{
			name:  "string split on semicolons and newlines",
			input: "Go; Docker\nKubernetes; ",
			want:  []string{"Go", "Docker", "Kubernetes"},
		},
		{
			name:  "list keeps order",
			input: []any{"Go", "  Docker  ", "", "Kubernetes"},
			want:  []string{"Go", "Docker", "Kubernetes"},
		},
		{
			name:  "unexpected type is empty",
			input: 42,
			want:  []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := FromRaw(map[string]any{"requirements": tc.input})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(p.Requirements, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, p.Requirements)
			}
		})
	}
}

func TestFromRawRequirementsFromSkillsAlias(t *testing.T) {
	p, err := FromRaw(map[string]any{"skills": []any{"Python", "SQL"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(p.Requirements, []string{"Python", "SQL"}) {
		t.Fatalf("unexpected requirements: %v", p.Requirements)
	}
}

func TestFromRawTags(t *testing.T) {
	p, err := FromRaw(map[string]any{"tags": "Go, go , DevOps,, Backend"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(p.Tags, []string{"go", "devops", "backend"}) {
		t.Fatalf("unexpected tags: %v", p.Tags)
	}
}

func TestFromRawRemote(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  *bool
	}{
		{"bool true", true, boolPtr(true)},
		{"bool false", false, boolPtr(false)},
		{"non-empty string", "yes", boolPtr(true)},
		{"empty string", "", boolPtr(false)},
		{"zero number", float64(0), boolPtr(false)},
		{"non-zero number", float64(1), boolPtr(true)},
		{"explicit null", nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := FromRaw(map[string]any{"title": "x", "remote": tc.input})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			switch {
			case tc.want == nil:
				if p.Remote != nil {
					t.Fatalf("expected unknown remote, got %v", *p.Remote)
				}
			case p.Remote == nil:
				t.Fatalf("expected remote %v, got unknown", *tc.want)
			case *p.Remote != *tc.want:
				t.Fatalf("expected remote %v, got %v", *tc.want, *p.Remote)
			}
		})
	}
}

func TestFromRawRemoteMissing(t *testing.T) {
	p, err := FromRaw(map[string]any{"title": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Remote != nil {
		t.Fatalf("expected unknown remote, got %v", *p.Remote)
	}
}

func TestFromRawSalaryRangeWinsOverFlatKeys(t *testing.T) {
	p, err := FromRaw(map[string]any{
		"salary_range": map[string]any{
			"min":      float64(90000),
			"max":      "$120,000",
			"currency": "USD",
		},
		"salary_min": float64(1),
		"salary_max": float64(2),
		"currency":   "EUR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.SalaryMin == nil || *p.SalaryMin != 90000 {
		t.Fatalf("unexpected salary min: %v", p.SalaryMin)
	}
	if p.SalaryMax == nil || *p.SalaryMax != 120000 {
		t.Fatalf("unexpected salary max: %v", p.SalaryMax)
	}
	if p.Currency != "USD" {
		t.Fatalf("unexpected currency: %q", p.Currency)
	}
}

func TestFromRawSalaryStrings(t *testing.T) {
	p, err := FromRaw(map[string]any{
		"salary_min": "€75,000",
		"salary_max": "not a number",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.SalaryMin == nil || *p.SalaryMin != 75000 {
		t.Fatalf("unexpected salary min: %v", p.SalaryMin)
	}
	if p.SalaryMax != nil {
		t.Fatalf("expected nil salary max, got %v", *p.SalaryMax)
	}
}

func TestFromRawNil(t *testing.T) {
	if _, err := FromRaw(nil); err == nil {
		t.Fatalf("expected error for nil input")
	}
}

func TestToMap(t *testing.T) {
	raw := map[string]any{"title": "Engineer", "company": "Acme"}

	p, err := FromRaw(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := p.ToMap()

	if m["title"] != "Engineer" {
		t.Fatalf("unexpected title: %v", m["title"])
	}
	if m["url"] != nil {
		t.Fatalf("expected nil url, got %v", m["url"])
	}
	if m["remote"] != nil {
		t.Fatalf("expected nil remote, got %v", m["remote"])
	}
	if !reflect.DeepEqual(m["raw"], raw) {
		t.Fatalf("expected original raw map to be retained")
	}
}

func boolPtr(b bool) *bool { return &b }
