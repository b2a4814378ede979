package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mkoval/jobscout/internal/scoring"
)

const defaultModel = "gemini-embedding-001"

// Embedder encodes texts with the Gemini embedding API. It implements
// scoring.Embedder and is safe for concurrent use; the client is created once
// per process and shared read-only across scoring calls.
type Embedder struct {
	client    *genai.Client
	modelName string
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, apiKey, model string) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Embedder{client: client, modelName: model}, nil
}

// EmbedTexts encodes the given texts into dense vectors, one per input, in
// input order. Failures are wrapped as scoring.ErrEmbeddingUnavailable so the
// semantic matcher can degrade instead of failing the run.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.client == nil {
		return nil, scoring.ErrEmbeddingUnavailable
	}
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.modelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scoring.ErrEmbeddingUnavailable, err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			scoring.ErrEmbeddingUnavailable, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding returned", scoring.ErrEmbeddingUnavailable)
		}
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.modelName
}
