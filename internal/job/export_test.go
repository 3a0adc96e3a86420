package job

import (
	"encoding/json"
	"os"
	"testing"
)

func TestReportByCompany(t *testing.T) {
	first, err := FromRaw(map[string]any{
		"title":      "Engineer",
		"company":    "Acme",
		"location":   "Berlin",
		"salary_min": float64(80000),
		"salary_max": float64(100000),
		"currency":   "EUR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := FromRaw(map[string]any{
		"title":   "Analyst",
		"company": "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := ReportByCompany([]*Posting{first, second})

	entries, ok := report["Acme"]
	if !ok {
		t.Fatalf("expected company key in report")
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0]["salary"] != "80000-100000 EUR" {
		t.Fatalf("unexpected salary: %q", entries[0]["salary"])
	}
	if _, ok := entries[1]["salary"]; ok {
		t.Fatalf("entry without salary data must omit the salary key")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	p, err := FromRaw(map[string]any{"title": "Engineer", "company": "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filename, err := DumpToTmpFile([]*Posting{p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var payload []map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("dump is not valid JSON: %v", err)
	}
	if len(payload) != 1 || payload[0]["title"] != "Engineer" {
		t.Fatalf("unexpected dump payload: %v", payload)
	}
}
