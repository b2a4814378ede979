package jobs

import (
	"strings"
	"testing"
)

func score(v int) *int { return &v }

func TestDedupe(t *testing.T) {
	t.Parallel()

	list := &Jobs{}
	list.Append(
		&Job{ID: "r1", Title: "Go Developer", Company: "Acme"},
		&Job{ID: "a1", Title: "go developer", Company: "ACME"},
		&Job{ID: "r2", Title: "Go Developer", Company: "Globex"},
	)

	removed := list.Dedupe()

	if list.Len() != 2 {
		t.Fatalf("expected 2 unique jobs, got %d", list.Len())
	}
	if len(removed) != 1 || removed[0] != "a1" {
		t.Fatalf("expected the later duplicate removed, got %v", removed)
	}

	// First occurrence wins and order is preserved.
	if list.Items[0].ID != "r1" || list.Items[1].ID != "r2" {
		t.Fatalf("unexpected order after dedupe: %v", list.IDs())
	}
}

func TestSortByScore(t *testing.T) {
	t.Parallel()

	list := &Jobs{}
	list.Append(
		&Job{ID: "unscored", Title: "a"},
		&Job{ID: "low", Title: "b", MatchScore: score(40)},
		&Job{ID: "tie1", Title: "c", MatchScore: score(80)},
		&Job{ID: "tie2", Title: "d", MatchScore: score(80)},
		&Job{ID: "high", Title: "e", MatchScore: score(95)},
	)

	list.SortByScore()

	want := []string{"high", "tie1", "tie2", "low", "unscored"}
	got := list.IDs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", got, want)
		}
	}
}

func TestMatchTextBudget(t *testing.T) {
	t.Parallel()

	job := &Job{
		Title:          "Engineer",
		Description:    strings.Repeat("x", 100),
		RequiredSkills: []string{"go", "sql"},
	}

	full := job.MatchText(0)
	if !strings.Contains(full, "Job Title: Engineer") {
		t.Fatalf("expected title in match text, got %q", full)
	}
	if !strings.Contains(full, "Required Skills: go, sql") {
		t.Fatalf("expected skills in match text, got %q", full)
	}

	bounded := job.MatchText(20)
	if len([]rune(bounded)) != 20 {
		t.Fatalf("expected 20 runes, got %d", len([]rune(bounded)))
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	list := &Jobs{}
	list.Append(&Job{ID: "j1"}, &Job{ID: "j2"})

	if job := list.FindByID("j2"); job == nil || job.ID != "j2" {
		t.Fatalf("expected to find j2, got %v", job)
	}
	if job := list.FindByID("missing"); job != nil {
		t.Fatalf("expected nil for unknown id, got %v", job)
	}
}

func TestReportByCompany(t *testing.T) {
	t.Parallel()

	list := &Jobs{}
	list.Append(
		&Job{ID: "j1", Title: "Dev", Company: "Acme", MatchScore: score(70)},
		&Job{ID: "j2", Title: "Ops", Company: "Acme"},
		&Job{ID: "j3", Title: "Dev", Company: "Globex", SalaryRange: &SalaryRange{Text: "EUR 50k"}},
	)

	report := list.ReportByCompany()

	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 entries for Acme, got %d", len(report["Acme"]))
	}
	if report["Acme"][0]["match_score"] != "70" {
		t.Fatalf("expected match score in report, got %v", report["Acme"][0])
	}
	if report["Globex"][0]["salary"] != "EUR 50k" {
		t.Fatalf("expected salary text in report, got %v", report["Globex"][0])
	}
}
