package match

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/TechsNtheCity940/stockflow/internal/common"
	"github.com/TechsNtheCity940/stockflow/internal/service"
)

// EmbeddingClient is the subset of the OpenAI client used by
// EmbeddingScorer.
type EmbeddingClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// EmbeddingScorer scores by cosine similarity of text embeddings. Vectors
// are cached per normalized name so repeated catalog comparisons within a
// run cost one API call per distinct string.
type EmbeddingScorer struct {
	client    EmbeddingClient
	cache     map[string][]float32
	model     string
	retryOpts service.RetryOptions
	mu        sync.RWMutex
}

// NewEmbeddingScorer creates an EmbeddingScorer using the given client and
// embedding model name.
func NewEmbeddingScorer(client EmbeddingClient, model string) *EmbeddingScorer {
	return &EmbeddingScorer{
		client: client,
		model:  model,
		cache:  make(map[string][]float32),
		retryOpts: service.RetryOptions{
			MaxAttempts: 3,
		},
	}
}

// Name implements Scorer.
func (s *EmbeddingScorer) Name() string {
	return "embedding"
}

// Score implements Scorer.
func (s *EmbeddingScorer) Score(ctx context.Context, candidate, catalog string) (float64, error) {
	if candidate == "" || catalog == "" {
		return 0, nil
	}

	a, err := s.embed(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("embedding candidate %q: %w", candidate, err)
	}
	b, err := s.embed(ctx, catalog)
	if err != nil {
		return 0, fmt.Errorf("embedding catalog name %q: %w", catalog, err)
	}

	return cosine(a, b), nil
}

func (s *EmbeddingScorer) embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.RLock()
	vec, ok := s.cache[text]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}

	var resp openai.EmbeddingResponse
	err := common.WithRetry(ctx, func() error {
		var reqErr error
		resp, reqErr = s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(s.model),
		})
		if reqErr != nil {
			return &common.RetryableError{Err: reqErr, Retryable: true}
		}
		return nil
	}, s.retryOpts)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response for %q contained no data", text)
	}

	vec = resp.Data[0].Embedding

	s.mu.Lock()
	s.cache[text] = vec
	s.mu.Unlock()

	return vec, nil
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

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp float drift so downstream threshold checks stay in [0, 1].
	if sim > 1 {
		sim = 1
	}
	if sim < 0 {
		sim = 0
	}
	return sim
}
