package scoring

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"
)

// ErrEmbeddingUnavailable marks failures of the embedding backend. The
// matcher recovers from it by degrading to the keyword path; it never escapes
// a scoring run.
var ErrEmbeddingUnavailable = errors.New("embedding model unavailable")

// Similarity paths, observable for diagnostics. The numeric contract is the
// same for both: a value in [0,1].
const (
	PathEmbedding = "embedding"
	PathKeyword   = "keyword"
)

type Similarity struct {
	Score float64
	Path  string
}

// Embedder encodes texts into dense vectors. It is a shared, read-only
// resource: loaded once per process and reused across all scoring calls.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticMatcher computes the textual-relatedness signal between a job and a
// resume. The primary path embeds both texts and takes their cosine
// similarity; when the embedder is absent or fails, it falls back to keyword
// overlap.
type SemanticMatcher struct {
	embedder Embedder
	logger   *zap.Logger
}

func NewSemanticMatcher(embedder Embedder, logger *zap.Logger) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, logger: logger}
}

// Similarity returns a score in [0,1] and the path that produced it. It never
// fails: any embedding error degrades to the keyword path.
func (m *SemanticMatcher) Similarity(ctx context.Context, jobText, resumeText string) Similarity {
	if m.embedder != nil {
		vectors, err := m.embedder.EmbedTexts(ctx, []string{jobText, resumeText})
		if err == nil && len(vectors) == 2 {
			// Rescale cosine from [-1,1] to [0,1].
			score := (cosine(vectors[0], vectors[1]) + 1) / 2
			return Similarity{Score: clamp01(score), Path: PathEmbedding}
		}

		if err == nil {
			err = ErrEmbeddingUnavailable
		}
		m.logger.Warn("embedding failed, falling back to keyword similarity", zap.Error(err))
	}

	return Similarity{Score: keywordSimilarity(jobText, resumeText), Path: PathKeyword}
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// keywordSimilarity is the Jaccard overlap of the normalized keyword sets of
// both texts.
func keywordSimilarity(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	union := len(setA)
	for token := range setB {
		if _, ok := setA[token]; ok {
			shared++
			continue
		}
		union++
	}

	return float64(shared) / float64(union)
}
