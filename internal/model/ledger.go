package model

import "time"

// LedgerPeriod is a bounded window (typically a calendar month) over which
// inventory deltas accumulate. Exactly one period is active at a time.
type LedgerPeriod struct {
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	Label     string
	ID        int64
	IsActive  bool
}

// LedgerEntry is the per-item inventory state within one period, unique on
// (period, item). Quantity accumulates across deliveries; price always holds
// the latest observed unit price.
type LedgerEntry struct {
	CreatedAt        time.Time
	LastUpdated      time.Time
	LastDeliveryDate time.Time
	ID               int64
	PeriodID         int64
	ItemID           int64
	Quantity         int
	Price            float64
}

// Document is an append-only provenance record for a processed source file.
type Document struct {
	ProcessedAt time.Time
	Filename    string
	Note        string
	ID          int64
	PeriodID    int64
	ItemsCount  int
}

// InventoryRecord is a ledger entry joined with its catalog item, the shape
// returned by period queries and exports.
type InventoryRecord struct {
	LastDeliveryDate time.Time
	Item             CanonicalItem
	PeriodID         int64
	Quantity         int
	Price            float64
}
