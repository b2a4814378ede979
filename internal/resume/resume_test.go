package resume

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func date(year, month int) *time.Time {
	d := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestYearsOfExperience(t *testing.T) {
	t.Parallel()

	t.Run("stated durations are summed", func(t *testing.T) {
		p := &Profile{Experience: []ExperienceEntry{
			{Title: "Dev", DurationMonths: 24},
			{Title: "Senior Dev", DurationMonths: 18},
		}}
		if got := p.YearsOfExperience(); got != 3 {
			t.Fatalf("expected 3 years, got %d", got)
		}
	})

	t.Run("dates take precedence over stated duration", func(t *testing.T) {
		p := &Profile{Experience: []ExperienceEntry{
			{Title: "Dev", Start: date(2018, 1), End: date(2020, 1), DurationMonths: 120},
		}}
		if got := p.YearsOfExperience(); got != 2 {
			t.Fatalf("expected 2 years, got %d", got)
		}
	})

	t.Run("inverted dates count as zero", func(t *testing.T) {
		p := &Profile{Experience: []ExperienceEntry{
			{Title: "Dev", Start: date(2022, 1), End: date(2020, 1)},
		}}
		if got := p.YearsOfExperience(); got != 0 {
			t.Fatalf("expected 0 years, got %d", got)
		}
	})

	t.Run("no experience", func(t *testing.T) {
		p := &Profile{}
		if got := p.YearsOfExperience(); got != 0 {
			t.Fatalf("expected 0 years, got %d", got)
		}
	})
}

func TestCurrentPosition(t *testing.T) {
	t.Parallel()

	t.Run("prefers open ended entry", func(t *testing.T) {
		p := &Profile{Experience: []ExperienceEntry{
			{Title: "Old Role", Start: date(2015, 1), End: date(2019, 1)},
			{Title: "Current Role", Start: date(2019, 2)},
		}}
		if got := p.CurrentPosition(); got != "Current Role" {
			t.Fatalf("expected Current Role, got %q", got)
		}
	})

	t.Run("latest start wins among closed entries", func(t *testing.T) {
		p := &Profile{Experience: []ExperienceEntry{
			{Title: "First", Start: date(2015, 1), End: date(2017, 1)},
			{Title: "Second", Start: date(2017, 2), End: date(2020, 1)},
		}}
		if got := p.CurrentPosition(); got != "Second" {
			t.Fatalf("expected Second, got %q", got)
		}
	})

	t.Run("falls back to first entry without dates", func(t *testing.T) {
		p := &Profile{Experience: []ExperienceEntry{
			{Title: "Listed First"},
			{Title: "Listed Second"},
		}}
		if got := p.CurrentPosition(); got != "Listed First" {
			t.Fatalf("expected Listed First, got %q", got)
		}
	})

	t.Run("empty experience", func(t *testing.T) {
		p := &Profile{}
		if got := p.CurrentPosition(); got != "" {
			t.Fatalf("expected empty position, got %q", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.json")
	content := `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"skills": ["python", "sql"],
		"experience": [{"title": "Developer", "company": "Acme", "duration_months": 36}],
		"education": [{"degree": "BSc Computer Science", "institution": "TU"}],
		"salary_expectation": 65000
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", profile.Name)
	}
	if len(profile.Skills) != 2 {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
	if profile.YearsOfExperience() != 3 {
		t.Fatalf("expected 3 years, got %d", profile.YearsOfExperience())
	}
	if profile.SalaryExpectation == nil || *profile.SalaryExpectation != 65000 {
		t.Fatalf("unexpected salary expectation: %v", profile.SalaryExpectation)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}

func TestMatchText(t *testing.T) {
	t.Parallel()

	p := &Profile{
		Summary: "Backend engineer",
		Skills:  []string{"go", "sql"},
		Experience: []ExperienceEntry{
			{Title: "Engineer A"}, {Title: "Engineer B"}, {Title: "Engineer C"}, {Title: "Engineer D"},
		},
		Projects: []Project{
			{Name: "pipeline", Technologies: []string{"kafka"}},
		},
	}

	text := p.MatchText(0)
	if !strings.Contains(text, "Summary: Backend engineer") {
		t.Fatalf("expected summary, got %q", text)
	}
	if !strings.Contains(text, "Engineer C") || strings.Contains(text, "Engineer D") {
		t.Fatalf("expected only the three most recent titles, got %q", text)
	}
	if !strings.Contains(text, "Project pipeline: kafka") {
		t.Fatalf("expected project technologies, got %q", text)
	}

	if got := p.MatchText(10); len([]rune(got)) != 10 {
		t.Fatalf("expected 10 runes, got %d", len([]rune(got)))
	}
}
