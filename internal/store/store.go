package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mkoval/jobscout/internal/jobs"
)

const (
	jobsFile   = "jobs.json"
	backupsDir = "backups"
)

// Metadata describes a stored job batch.
type Metadata struct {
	Query     string         `json:"query,omitempty"`
	FetchedAt time.Time      `json:"fetched_at,omitempty"`
	ScoredAt  time.Time      `json:"scored_at,omitempty"`
	Sources   map[string]int `json:"sources,omitempty"`
}

type envelope struct {
	Metadata  Metadata    `json:"metadata"`
	Jobs      []*jobs.Job `json:"jobs"`
	TotalJobs int         `json:"total_jobs"`
	SavedAt   time.Time   `json:"saved_at"`
}

// JobStore persists fetched and scored jobs as JSON on disk. It is a read
// source before scoring and a write sink after; the scoring engine itself
// owns no persistent state.
type JobStore struct {
	dir string
}

func NewJobStore(dir string) *JobStore {
	if dir == "" {
		dir = "data"
	}
	return &JobStore{dir: dir}
}

func (s *JobStore) jobsPath() string {
	return filepath.Join(s.dir, jobsFile)
}

// SaveJobs writes the job list with metadata, keeping a backup of the
// previous file.
func (s *JobStore) SaveJobs(list *jobs.Jobs, meta Metadata) error {
	if err := os.MkdirAll(filepath.Join(s.dir, backupsDir), 0o755); err != nil {
		return fmt.Errorf("creating store directories: %w", err)
	}

	if _, err := os.Stat(s.jobsPath()); err == nil {
		backup := filepath.Join(s.dir, backupsDir, fmt.Sprintf("jobs_%s.json", time.Now().UTC().Format("20060102T150405")))
		if err := os.Rename(s.jobsPath(), backup); err != nil {
			return fmt.Errorf("backing up previous jobs file: %w", err)
		}
	}

	file, err := os.OpenFile(s.jobsPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope{
		Metadata:  meta,
		Jobs:      list.Items,
		TotalJobs: list.Len(),
		SavedAt:   time.Now().UTC(),
	})
}

// LoadJobs reads the stored job list. A missing file yields an empty list,
// not an error, so scoring can run against a cold cache.
func (s *JobStore) LoadJobs() (*jobs.Jobs, Metadata, error) {
	file, err := os.Open(s.jobsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &jobs.Jobs{}, Metadata{}, nil
		}
		return nil, Metadata{}, err
	}
	defer file.Close()

	var stored envelope
	if err := json.NewDecoder(file).Decode(&stored); err != nil {
		return nil, Metadata{}, fmt.Errorf("decoding jobs file %q: %w", s.jobsPath(), err)
	}

	return &jobs.Jobs{Items: stored.Jobs}, stored.Metadata, nil
}
