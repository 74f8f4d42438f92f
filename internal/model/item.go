// Package model defines the core domain models used throughout the application.
package model

import "time"

// ItemCategory classifies a canonical inventory item.
type ItemCategory string

// Item category constants.
const (
	CategoryFood    ItemCategory = "food"
	CategoryAlcohol ItemCategory = "alcohol"
	CategoryOther   ItemCategory = "other"
)

// ValidCategory reports whether c is one of the known item categories.
func ValidCategory(c ItemCategory) bool {
	switch c {
	case CategoryFood, CategoryAlcohol, CategoryOther:
		return true
	}
	return false
}

// CanonicalItem is an entry in the authoritative inventory catalog.
// Identity is the (normalized name, category, pack size) triple; items are
// created on first encounter and never deleted.
type CanonicalItem struct {
	CreatedAt   time.Time
	LastUpdated time.Time
	Name        string
	PackSize    string
	Category    ItemCategory
	ID          int64
}
