package filtering

import (
	"encoding/json"
	"os"
	"time"
)

// SeenJobs is the persistent exclude-file payload: fingerprints of postings
// that were already handled in earlier runs.
type SeenJobs struct {
	Items []*SeenJob `json:"items"`
}

type SeenJob struct {
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title,omitempty"`
	Company     string    `json:"company,omitempty"`
	SeenAt      time.Time `json:"seen_at"`
}

// GetSeenJobsFromFile loads the exclude file. A missing or empty file
// yields an empty list so first runs need no setup.
func GetSeenJobsFromFile(path string) (*SeenJobs, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return &SeenJobs{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &SeenJobs{}, nil
	}

	var seen SeenJobs
	if err := json.NewDecoder(file).Decode(&seen); err != nil {
		return nil, err
	}
	return &seen, nil
}

func (s *SeenJobs) Append(other *SeenJobs) {
	s.Items = append(s.Items, other.Items...)
}

func (s *SeenJobs) Fingerprints() []string {
	fps := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		fps = append(fps, item.Fingerprint)
	}
	return fps
}

func (s *SeenJobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// MarkSeen converts matches into exclude-file entries stamped with the
// current time.
func MarkSeen(matches []*Match) *SeenJobs {
	seen := &SeenJobs{}
	for _, m := range matches {
		seen.Items = append(seen.Items, &SeenJob{
			Fingerprint: m.Posting.Fingerprint(),
			Title:       m.Posting.Title,
			Company:     m.Posting.Company,
			SeenAt:      time.Now().UTC(),
		})
	}
	return seen
}
