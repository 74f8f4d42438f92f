// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// Ledger defines the contract for the persistence layer: the item catalog,
// period-scoped inventory entries, and document provenance.
type Ledger interface {
	// Period operations
	ActivePeriod(ctx context.Context) (*model.LedgerPeriod, error)
	RollOver(ctx context.Context, label string) (*model.LedgerPeriod, error)
	ListPeriods(ctx context.Context) ([]model.LedgerPeriod, error)
	PeriodSummary(ctx context.Context, periodID int64) (*PeriodSummary, error)

	// Catalog operations
	UpsertItem(ctx context.Context, item *model.CanonicalItem) (*model.CanonicalItem, error)
	GetItems(ctx context.Context) ([]model.CanonicalItem, error)
	GetItemsByCategory(ctx context.Context, category model.ItemCategory) ([]model.CanonicalItem, error)

	// Entry operations
	ApplyLineItem(ctx context.Context, periodID int64, line model.LineItem) (*model.LedgerEntry, error)
	EntriesByPeriod(ctx context.Context, periodID int64) ([]model.InventoryRecord, error)

	// Document provenance
	RecordDocument(ctx context.Context, doc *model.Document) (*model.Document, error)
	DocumentsByPeriod(ctx context.Context, periodID int64) ([]model.Document, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CorrectionStore defines the contract for the human-feedback loop that
// short-circuits matching for previously corrected text.
type CorrectionStore interface {
	AddCorrection(ctx context.Context, correction *model.Correction) (*model.Correction, error)
	SuggestCorrection(ctx context.Context, text string) (*model.Correction, error)
	ListCorrections(ctx context.Context) ([]model.Correction, error)
}

// PeriodSummary contains aggregate inventory figures for one period.
type PeriodSummary struct {
	ByCategory    map[model.ItemCategory]CategoryTotals
	PeriodLabel   string
	PeriodID      int64
	ItemCount     int
	TotalQuantity int
	TotalValue    float64
	DocumentCount int
}

// CategoryTotals contains aggregated figures for one item category.
type CategoryTotals struct {
	ItemCount int
	Quantity  int
	Value     float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
