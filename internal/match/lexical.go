package match

import (
	"context"

	"github.com/agext/levenshtein"
)

// Scorer computes a similarity in [0, 1] between a candidate name and a
// catalog name. Inputs are already normalized.
type Scorer interface {
	Name() string
	Score(ctx context.Context, candidate, catalog string) (float64, error)
}

// LexicalScorer scores by Levenshtein similarity with a Winkler-style bonus
// for shared prefixes, which rewards candidates that drop a trailing size
// token. It is cheap, deterministic, and needs no external services, so it
// is always enabled.
type LexicalScorer struct{}

// NewLexicalScorer returns a LexicalScorer.
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

// Name implements Scorer.
func (s *LexicalScorer) Name() string {
	return "lexical"
}

// Score implements Scorer.
func (s *LexicalScorer) Score(_ context.Context, candidate, catalog string) (float64, error) {
	if candidate == "" || catalog == "" {
		return 0, nil
	}
	return levenshtein.Match(candidate, catalog, nil), nil
}
