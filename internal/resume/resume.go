package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Profile is the parsed resume record produced by the resume-parsing
// collaborator. It is immutable for the lifetime of a scoring run; the derived
// fields (years of experience, current position) are computed here and never
// taken from the input directly.
type Profile struct {
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone,omitempty"`
	Link              string            `json:"link,omitempty"`
	Location          string            `json:"location,omitempty"`
	Summary           string            `json:"summary,omitempty"`
	Skills            []string          `json:"skills"`
	Experience        []ExperienceEntry `json:"experience"`
	Education         []EducationEntry  `json:"education"`
	Certifications    []Certification   `json:"certifications,omitempty"`
	Projects          []Project         `json:"projects,omitempty"`
	SalaryExpectation *float64          `json:"salary_expectation,omitempty"`
}

type ExperienceEntry struct {
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Start          *time.Time `json:"start,omitempty"`
	End            *time.Time `json:"end,omitempty"`
	Description    string     `json:"description,omitempty"`
	DurationMonths int        `json:"duration_months,omitempty"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Year        int    `json:"year,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Load reads a parsed resume JSON file.
func Load(path string) (*Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening resume file: %w", err)
	}
	defer file.Close()

	var profile Profile
	if err := json.NewDecoder(file).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding resume file %q: %w", path, err)
	}
	return &profile, nil
}

// YearsOfExperience derives a non-negative year count from the experience
// entries. Entry durations are summed; when start/end dates are present they
// take precedence over a stated duration.
func (p *Profile) YearsOfExperience() int {
	months := 0
	for _, exp := range p.Experience {
		months += exp.durationMonths()
	}
	years := months / 12
	if years < 0 {
		return 0
	}
	return years
}

func (e *ExperienceEntry) durationMonths() int {
	if e.Start != nil {
		end := time.Now()
		if e.End != nil {
			end = *e.End
		}
		if end.Before(*e.Start) {
			return 0
		}
		months := int(end.Sub(*e.Start).Hours() / (24 * 30))
		return months
	}
	if e.DurationMonths > 0 {
		return e.DurationMonths
	}
	return 0
}

// CurrentPosition returns the title of the most recent experience entry,
// preferring entries without an end date, then the latest start date. It
// falls back to the first entry when no dates are available.
func (p *Profile) CurrentPosition() string {
	if len(p.Experience) == 0 {
		return ""
	}

	entries := make([]ExperienceEntry, len(p.Experience))
	copy(entries, p.Experience)

	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if (ea.End == nil) != (eb.End == nil) {
			return ea.End == nil
		}
		if ea.Start != nil && eb.Start != nil {
			return ea.Start.After(*eb.Start)
		}
		return ea.Start != nil
	})

	return entries[0].Title
}

// MatchText builds the text used for semantic comparison: summary, skills and
// the most recent experience titles, bounded by budget runes.
func (p *Profile) MatchText(budget int) string {
	parts := make([]string, 0, 4)
	if p.Summary != "" {
		parts = append(parts, "Summary: "+p.Summary)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}

	const recentTitles = 3
	titles := make([]string, 0, recentTitles)
	for _, exp := range p.Experience {
		if exp.Title == "" {
			continue
		}
		titles = append(titles, exp.Title)
		if len(titles) == recentTitles {
			break
		}
	}
	if len(titles) > 0 {
		parts = append(parts, "Experience: "+strings.Join(titles, ", "))
	}
	for _, project := range p.Projects {
		if len(project.Technologies) > 0 {
			parts = append(parts, "Project "+project.Name+": "+strings.Join(project.Technologies, ", "))
		}
	}

	text := strings.Join(parts, " ")
	if budget > 0 {
		if runes := []rune(text); len(runes) > budget {
			return string(runes[:budget])
		}
	}
	return text
}
