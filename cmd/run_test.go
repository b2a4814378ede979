package cmd

import (
	"testing"

	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/scoring"
)

var weightsFixture = scoring.Weights{Skills: 0.9, Experience: 0.9}

func scored(id string, score int) *jobs.Job {
	return &jobs.Job{ID: id, Title: id, MatchScore: &score}
}

func TestApplyMinScore(t *testing.T) {
	t.Parallel()

	list := &jobs.Jobs{}
	list.Append(
		scored("high", 90),
		scored("mid", 60),
		scored("low", 20),
		&jobs.Job{ID: "unscored", Title: "unscored"},
	)

	dropped := applyMinScore(list, 50)

	if dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
	if list.Len() != 2 {
		t.Fatalf("expected 2 kept, got %v", list.IDs())
	}
	if list.Items[0].ID != "high" || list.Items[1].ID != "mid" {
		t.Fatalf("unexpected survivors: %v", list.IDs())
	}
}

func TestSearchDefaults(t *testing.T) {
	t.Parallel()

	config := &Config{}
	if got := searchQuery(config); got != "" {
		t.Fatalf("expected empty query, got %q", got)
	}
	if got := limitPerSource(config); got != defaultLimitPerSource {
		t.Fatalf("expected default limit, got %d", got)
	}

	config.Search = &SearchConfig{Query: "golang", LimitPerSource: 5}
	if got := searchQuery(config); got != "golang" {
		t.Fatalf("unexpected query: %q", got)
	}
	if got := limitPerSource(config); got != 5 {
		t.Fatalf("unexpected limit: %d", got)
	}
}

func TestScoringWeightsValidation(t *testing.T) {
	t.Parallel()

	if _, err := scoringWeights(&Config{}); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	bad := &Config{Scoring: &ScoringConfig{Weights: &weightsFixture}}
	if _, err := scoringWeights(bad); err == nil {
		t.Fatalf("expected invalid weights to be rejected")
	}
}
