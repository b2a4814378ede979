package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Source platforms known to the ingestion layer.
const (
	SourceRemotive = "remotive"
	SourceAdzuna   = "adzuna"
	SourceOther    = "other"
)

// SalaryRange holds the parsed salary data of a posting. Min and Max are
// zero when the source only provided free text.
type SalaryRange struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Text     string  `json:"text,omitempty"`
}

// Job is a normalized job posting. The ID is immutable once assigned by a
// provider. MatchScore stays nil until the scoring engine sets it; once set it
// is a value in [0,100] and re-scoring overwrites it, never accumulates.
type Job struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Company        string       `json:"company_name"`
	Location       string       `json:"location"`
	Description    string       `json:"description"`
	SalaryRange    *SalaryRange `json:"salary_range,omitempty"`
	RequiredSkills []string     `json:"required_skills"`
	Source         string       `json:"source_platform"`
	PostedAt       time.Time    `json:"posted_date"`
	URL            string       `json:"url"`
	MatchScore     *int         `json:"match_score,omitempty"`
}

// MatchText builds the text used for semantic comparison: the most
// semantically dense fields, bounded by budget runes.
func (j *Job) MatchText(budget int) string {
	parts := make([]string, 0, 3)
	if j.Title != "" {
		parts = append(parts, "Job Title: "+j.Title)
	}
	if j.Description != "" {
		parts = append(parts, "Job Description: "+j.Description)
	}
	if len(j.RequiredSkills) > 0 {
		parts = append(parts, "Required Skills: "+strings.Join(j.RequiredSkills, ", "))
	}

	text := strings.Join(parts, " ")
	if budget > 0 {
		if runes := []rune(text); len(runes) > budget {
			return string(runes[:budget])
		}
	}
	return text
}

// Jobs is an ordered collection of postings. Order is the ingestion order and
// is the tie-breaker for ranking.
type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) Append(items ...*Job) {
	j.Items = append(j.Items, items...)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

func (j *Jobs) IDs() []string {
	ids := make([]string, 0, len(j.Items))
	for _, job := range j.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

// Dedupe removes duplicates by lowercased title+company, keeping the first
// occurrence and the original order. It returns the IDs of removed jobs.
func (j *Jobs) Dedupe() []string {
	seen := make(map[string]struct{}, len(j.Items))
	unique := make([]*Job, 0, len(j.Items))
	var removed []string

	for _, job := range j.Items {
		key := strings.ToLower(strings.TrimSpace(job.Title)) + "_" + strings.ToLower(strings.TrimSpace(job.Company))
		if _, ok := seen[key]; ok {
			removed = append(removed, job.ID)
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, job)
	}

	j.Items = unique
	return removed
}

// SortByScore orders jobs by descending match score. The sort is stable so
// ties keep their ingestion order; unscored jobs go last.
func (j *Jobs) SortByScore() {
	sort.SliceStable(j.Items, func(a, b int) bool {
		sa, sb := j.Items[a].MatchScore, j.Items[b].MatchScore
		switch {
		case sa == nil:
			return false
		case sb == nil:
			return true
		default:
			return *sa > *sb
		}
	})
}

// ReportByCompany groups a brief view of the postings by company name.
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		entry := map[string]string{
			"title":    job.Title,
			"url":      job.URL,
			"location": job.Location,
		}
		if job.SalaryRange != nil && job.SalaryRange.Text != "" {
			entry["salary"] = job.SalaryRange.Text
		}
		if job.MatchScore != nil {
			entry["match_score"] = fmt.Sprintf("%d", *job.MatchScore)
		}
		report[job.Company] = append(report[job.Company], entry)
	}
	return report
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobscout_jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}
