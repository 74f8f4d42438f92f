// Package engine implements the document processing pipeline that turns OCR
// text into ledger updates.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/common"
	"github.com/TechsNtheCity940/stockflow/internal/extract"
	"github.com/TechsNtheCity940/stockflow/internal/match"
	"github.com/TechsNtheCity940/stockflow/internal/model"
	"github.com/TechsNtheCity940/stockflow/internal/service"
)

// Engine orchestrates extraction, matching, and ledger application for
// invoice documents.
type Engine struct {
	ledger      service.Ledger
	corrections service.CorrectionStore
	matcher     *match.Matcher
	extractor   *extract.Extractor
}

// New creates an engine with the given dependencies. The correction store
// may be nil, in which case accepted matches are not reaffirmed.
func New(ledger service.Ledger, corrections service.CorrectionStore, matcher *match.Matcher, extractor *extract.Extractor) *Engine {
	return &Engine{
		ledger:      ledger,
		corrections: corrections,
		matcher:     matcher,
		extractor:   extractor,
	}
}

// DocumentResult is the outcome of processing one document.
type DocumentResult struct {
	Filename  string
	Updates   []model.InventoryUpdate
	Unmatched []model.UnmatchedItem
}

// ProcessText runs one document's OCR text through the full pipeline:
// extract candidates, assemble line items, match each against the catalog,
// and fold accepted items into the active period. Unmatched items are
// reported, never silently dropped. The document itself is recorded for
// provenance whether or not any line item was accepted.
func (e *Engine) ProcessText(ctx context.Context, text, filename string) (*DocumentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyDocument, filename)
	}

	period, err := e.ledger.ActivePeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active period: %w", err)
	}

	candidates := e.extractor.Extract(text)
	lines := e.extractor.Assemble(candidates, time.Now())

	slog.Debug("Assembled line items",
		"file", filename,
		"names", len(candidates.Names),
		"line_items", len(lines))

	result := &DocumentResult{Filename: filename}

	catalog, err := e.ledger.GetItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, line := range lines {
		matched, matchErr := e.matcher.Match(ctx, line.Name, catalog)
		if matchErr != nil {
			return nil, fmt.Errorf("matching %q: %w", line.Name, matchErr)
		}

		if !matched.Accepted {
			unmatched := model.UnmatchedItem{Name: line.Name, Score: matched.Score}
			if matched.Item != nil {
				unmatched.SuggestedMatch = matched.Item.Name
			}
			result.Unmatched = append(result.Unmatched, unmatched)
			continue
		}

		// Apply under the canonical name so spelling variants accumulate
		// into one entry.
		applied := line
		applied.Name = matched.Item.Name
		applied.Category = matched.Item.Category
		if applied.PackSize == "" {
			applied.PackSize = matched.Item.PackSize
		}

		entry, applyErr := e.ledger.ApplyLineItem(ctx, period.ID, applied)
		if applyErr != nil {
			return nil, fmt.Errorf("applying %q: %w", applied.Name, applyErr)
		}

		result.Updates = append(result.Updates, model.InventoryUpdate{
			ItemName:      matched.Item.Name,
			Category:      matched.Item.Category,
			PackSize:      applied.PackSize,
			Price:         entry.Price,
			Ordered:       line.Quantity,
			DeliveredDate: applied.DeliveryDate,
			Score:         matched.Score,
			ViaCorrection: matched.ViaCorrection,
		})

		if matched.ViaCorrection {
			e.reaffirmCorrection(ctx, line.Name, matched.Item)
		}
	}

	_, err = e.ledger.RecordDocument(ctx, &model.Document{
		PeriodID:   period.ID,
		Filename:   filename,
		ItemsCount: len(result.Updates),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	return result, nil
}

// Correct stores a human correction mapping extracted text to a catalog item
// and immediately applies nothing; future documents pick it up via the
// matcher.
func (e *Engine) Correct(ctx context.Context, originalText, correctedName string, category model.ItemCategory) (*model.Correction, error) {
	if e.corrections == nil {
		return nil, fmt.Errorf("%w: correction store not configured", common.ErrMissingConfig)
	}

	correction, err := e.corrections.AddCorrection(ctx, &model.Correction{
		OriginalText:  originalText,
		CorrectedName: correctedName,
		Category:      category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save correction: %w", err)
	}

	slog.Info("Saved correction",
		"original", originalText,
		"corrected", correctedName,
		"confidence", correction.Confidence)

	return correction, nil
}

// reaffirmCorrection bumps the confidence of the correction that produced an
// accepted match. Failures here never fail the document.
func (e *Engine) reaffirmCorrection(ctx context.Context, originalText string, item *model.CanonicalItem) {
	if e.corrections == nil {
		return
	}

	if _, err := e.corrections.AddCorrection(ctx, &model.Correction{
		OriginalText:  originalText,
		CorrectedName: item.Name,
		Category:      item.Category,
	}); err != nil {
		slog.Warn("Failed to reaffirm correction",
			"original", originalText,
			"error", err)
	}
}
