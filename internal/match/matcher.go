package match

import (
	"context"
	"fmt"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// DefaultThreshold is the minimum score a catalog item must reach for a
// candidate to be accepted without human correction.
const DefaultThreshold = 0.75

// CorrectionSource supplies prior human corrections for extracted text.
type CorrectionSource interface {
	SuggestCorrection(ctx context.Context, text string) (*model.Correction, error)
}

// Result is the outcome of matching one candidate name.
type Result struct {
	Item          *model.CanonicalItem
	Score         float64
	Accepted      bool
	ViaCorrection bool
}

// Matcher resolves candidate names to catalog items. Corrections are
// consulted first and bypass the score threshold; otherwise each catalog
// item is scored by every scorer and the best score wins.
type Matcher struct {
	corrections CorrectionSource
	scorers     []Scorer
	threshold   float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold overrides the acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		if threshold > 0 && threshold <= 1 {
			m.threshold = threshold
		}
	}
}

// WithCorrections wires a correction source into the matcher.
func WithCorrections(source CorrectionSource) Option {
	return func(m *Matcher) {
		m.corrections = source
	}
}

// NewMatcher builds a Matcher over the given scorers. At least one scorer is
// required.
func NewMatcher(scorers []Scorer, opts ...Option) (*Matcher, error) {
	if len(scorers) == 0 {
		return nil, fmt.Errorf("at least one scorer is required")
	}

	m := &Matcher{
		scorers:   scorers,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Match scores name against every item in catalog and returns the best
// match. An empty catalog yields an unaccepted zero-score result, not an
// error. When a correction matches the raw text, the corrected item is
// returned immediately, accepted, carrying the correction's stored
// confidence as its score.
func (m *Matcher) Match(ctx context.Context, name string, catalog []model.CanonicalItem) (Result, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return Result{}, nil
	}

	if corrected, ok, err := m.applyCorrection(ctx, name, catalog); err != nil {
		return Result{}, err
	} else if ok {
		return corrected, nil
	}

	var best Result
	for i := range catalog {
		item := &catalog[i]
		catalogName := Normalize(item.Name)

		score, err := m.bestScore(ctx, normalized, catalogName)
		if err != nil {
			return Result{}, err
		}

		if score > best.Score ||
			(score == best.Score && best.Item != nil && item.LastUpdated.After(best.Item.LastUpdated)) {
			best.Score = score
			best.Item = item
		}
	}

	best.Accepted = best.Item != nil && best.Score >= m.threshold
	return best, nil
}

// bestScore runs every scorer and keeps the maximum.
func (m *Matcher) bestScore(ctx context.Context, candidate, catalogName string) (float64, error) {
	var best float64
	for _, scorer := range m.scorers {
		score, err := scorer.Score(ctx, candidate, catalogName)
		if err != nil {
			return 0, fmt.Errorf("%s scorer: %w", scorer.Name(), err)
		}
		if score > best {
			best = score
		}
	}
	return best, nil
}

func (m *Matcher) applyCorrection(ctx context.Context, raw string, catalog []model.CanonicalItem) (Result, bool, error) {
	if m.corrections == nil {
		return Result{}, false, nil
	}

	correction, err := m.corrections.SuggestCorrection(ctx, raw)
	if err != nil {
		return Result{}, false, fmt.Errorf("looking up correction for %q: %w", raw, err)
	}
	if correction == nil {
		return Result{}, false, nil
	}

	correctedName := Normalize(correction.CorrectedName)
	for i := range catalog {
		item := &catalog[i]
		if Normalize(item.Name) == correctedName {
			return Result{
				Item:          item,
				Score:         correction.Confidence,
				Accepted:      true,
				ViaCorrection: true,
			}, true, nil
		}
	}

	// The correction names an item not yet in the catalog; fall through to
	// scoring so the caller can decide to create it.
	return Result{}, false, nil
}
