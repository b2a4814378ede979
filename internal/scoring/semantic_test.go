package scoring

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func TestSimilarityEmbeddingPath(t *testing.T) {
	t.Parallel()

	t.Run("identical vectors", func(t *testing.T) {
		stub := &stubEmbedder{vectors: [][]float32{{1, 0, 0}, {1, 0, 0}}}
		m := NewSemanticMatcher(stub, zap.NewNop())

		sim := m.Similarity(context.Background(), "job", "resume")
		if sim.Path != PathEmbedding {
			t.Fatalf("expected embedding path, got %s", sim.Path)
		}
		almostEqual(t, sim.Score, 1.0)
	})

	t.Run("orthogonal vectors rescale to midpoint", func(t *testing.T) {
		stub := &stubEmbedder{vectors: [][]float32{{1, 0}, {0, 1}}}
		m := NewSemanticMatcher(stub, zap.NewNop())

		sim := m.Similarity(context.Background(), "job", "resume")
		almostEqual(t, sim.Score, 0.5)
	})

	t.Run("opposite vectors rescale to zero", func(t *testing.T) {
		stub := &stubEmbedder{vectors: [][]float32{{1, 0}, {-1, 0}}}
		m := NewSemanticMatcher(stub, zap.NewNop())

		sim := m.Similarity(context.Background(), "job", "resume")
		almostEqual(t, sim.Score, 0.0)
	})
}

func TestSimilarityFallsBackOnEmbedderFailure(t *testing.T) {
	t.Parallel()

	stub := &stubEmbedder{err: errors.New("quota exceeded")}
	m := NewSemanticMatcher(stub, zap.NewNop())

	sim := m.Similarity(context.Background(), "python developer", "python developer")
	if sim.Path != PathKeyword {
		t.Fatalf("expected keyword fallback, got %s", sim.Path)
	}
	almostEqual(t, sim.Score, 1.0)

	if stub.calls != 1 {
		t.Fatalf("expected one embed attempt, got %d", stub.calls)
	}
}

func TestSimilarityWithoutEmbedder(t *testing.T) {
	t.Parallel()

	m := NewSemanticMatcher(nil, zap.NewNop())

	sim := m.Similarity(context.Background(), "go engineer backend", "go engineer frontend")
	if sim.Path != PathKeyword {
		t.Fatalf("expected keyword path, got %s", sim.Path)
	}
	// {go, engineer} shared of {go, engineer, backend, frontend}.
	almostEqual(t, sim.Score, 0.5)
}

func TestSimilarityShortVectorResponse(t *testing.T) {
	t.Parallel()

	stub := &stubEmbedder{vectors: [][]float32{{1, 0}}}
	m := NewSemanticMatcher(stub, zap.NewNop())

	sim := m.Similarity(context.Background(), "a b c", "unrelated words entirely")
	if sim.Path != PathKeyword {
		t.Fatalf("expected keyword fallback on short response, got %s", sim.Path)
	}
}

func TestKeywordSimilarityEmptyText(t *testing.T) {
	t.Parallel()

	almostEqual(t, keywordSimilarity("", "python"), 0.0)
	almostEqual(t, keywordSimilarity("python", ""), 0.0)
}
