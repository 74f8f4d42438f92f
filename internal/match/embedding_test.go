package match

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddingClient struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbeddingClient) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.EmbeddingResponse{}, f.err
	}

	req := conv.Convert()
	inputs, ok := req.Input.([]string)
	if !ok || len(inputs) == 0 {
		return openai.EmbeddingResponse{}, errors.New("unexpected request input")
	}

	vec, ok := f.vectors[inputs[0]]
	if !ok {
		return openai.EmbeddingResponse{}, errors.New("no vector for input")
	}

	return openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: vec}},
	}, nil
}

func TestEmbeddingScorer(t *testing.T) {
	client := &fakeEmbeddingClient{
		vectors: map[string][]float32{
			"heinz mustard":  {1, 0, 0},
			"heinz mustrd":   {0.98, 0.05, 0},
			"diesel gloves":  {0, 1, 0},
		},
	}
	s := NewEmbeddingScorer(client, "text-embedding-3-small")
	ctx := context.Background()

	t.Run("similar vectors score high", func(t *testing.T) {
		score, err := s.Score(ctx, "heinz mustrd", "heinz mustard")
		require.NoError(t, err)
		assert.Greater(t, score, 0.95)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		score, err := s.Score(ctx, "diesel gloves", "heinz mustard")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 0.001)
	})

	t.Run("empty input scores zero without a call", func(t *testing.T) {
		before := client.calls
		score, err := s.Score(ctx, "", "heinz mustard")
		require.NoError(t, err)
		assert.Zero(t, score)
		assert.Equal(t, before, client.calls)
	})
}

func TestEmbeddingScorerCachesVectors(t *testing.T) {
	client := &fakeEmbeddingClient{
		vectors: map[string][]float32{
			"heinz mustard": {1, 0, 0},
			"heinz mustrd":  {0.9, 0.1, 0},
		},
	}
	s := NewEmbeddingScorer(client, "text-embedding-3-small")
	ctx := context.Background()

	_, err := s.Score(ctx, "heinz mustrd", "heinz mustard")
	require.NoError(t, err)
	firstRun := client.calls

	_, err = s.Score(ctx, "heinz mustrd", "heinz mustard")
	require.NoError(t, err)

	assert.Equal(t, firstRun, client.calls, "repeat scores must hit the cache")
	assert.Equal(t, 2, firstRun)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 0.001)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 0.001)
	assert.Zero(t, cosine([]float32{1, 2}, []float32{1, 2, 3}), "mismatched lengths")
	assert.Zero(t, cosine(nil, nil))
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 1}), "zero vector")
}
