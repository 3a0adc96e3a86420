package job

import (
	"encoding/json"
	"fmt"
	"os"
)

// DumpToTmpFile writes postings to a temporary JSON file and returns its
// path.
func DumpToTmpFile(postings []*Posting) (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	payload := make([]map[string]any, 0, len(postings))
	for _, p := range postings {
		payload = append(payload, p.ToMap())
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups postings per company for a quick human-readable
// overview.
func ReportByCompany(postings []*Posting) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, p := range postings {
		entry := map[string]string{
			"title":    p.Title,
			"location": p.Location,
			"url":      p.URL,
			"source":   p.Source,
		}
		if p.SalaryMin != nil || p.SalaryMax != nil {
			entry["salary"] = fmt.Sprintf("%s-%s %s",
				formatSalary(p.SalaryMin), formatSalary(p.SalaryMax), p.Currency)
		}
		report[p.Company] = append(report[p.Company], entry)
	}
	return report
}

func formatSalary(f *float64) string {
	if f == nil {
		return "?"
	}
	return fmt.Sprintf("%.0f", *f)
}
