package model

import "time"

// InventoryUpdate records one accepted line item after matching and ledger
// application.
type InventoryUpdate struct {
	DeliveredDate time.Time
	ItemName      string
	PackSize      string
	Category      ItemCategory
	Price         float64
	Ordered       int
	Score         float64
	ViaCorrection bool
}

// UnmatchedItem records a line item whose best catalog score fell below the
// acceptance threshold. SuggestedMatch holds the nearest miss, if any.
type UnmatchedItem struct {
	Name           string
	SuggestedMatch string
	Score          float64
}
