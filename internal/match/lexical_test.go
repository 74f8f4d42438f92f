package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalScorer(t *testing.T) {
	s := NewLexicalScorer()
	ctx := context.Background()

	t.Run("identical strings score 1", func(t *testing.T) {
		score, err := s.Score(ctx, "heinz mustard", "heinz mustard")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 0.001)
	})

	t.Run("small typo scores high", func(t *testing.T) {
		score, err := s.Score(ctx, "heinz mustrd", "heinz mustard")
		require.NoError(t, err)
		assert.Greater(t, score, 0.85)
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		score, err := s.Score(ctx, "zzyzx flurble", "heinz mustard")
		require.NoError(t, err)
		assert.Less(t, score, 0.5)
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		score, err := s.Score(ctx, "", "heinz mustard")
		require.NoError(t, err)
		assert.Zero(t, score)
	})
}
