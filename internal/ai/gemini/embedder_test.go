package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/mkoval/jobscout/internal/scoring"
)

func TestNewEmbedderRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewEmbedder(context.Background(), "   ", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestEmbedTextsWithoutClient(t *testing.T) {
	t.Parallel()

	var e *Embedder
	if _, err := e.EmbedTexts(context.Background(), []string{"text"}); !errors.Is(err, scoring.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}

	if e.Model() != "" {
		t.Fatalf("expected empty model for nil embedder")
	}
}
