package model

import "time"

// DateCandidate is a date-shaped span found in source text.
type DateCandidate struct {
	Text     string
	Type     string // pattern family that produced the match, e.g. "iso", "slash"
	Position int
	Line     int
}

// PriceCandidate is a monetary token found in source text.
type PriceCandidate struct {
	Text     string
	Currency string
	Amount   float64
	Position int
	Line     int
}

// QuantityCandidate is a count-like token found in source text.
type QuantityCandidate struct {
	Text     string
	Unit     string
	Value    int
	Position int
	Line     int
}

// NameCandidate is a span that looks like a product name. PackSize carries
// any pack-size token found on the same line.
type NameCandidate struct {
	Text         string
	PackSize     string
	CategoryHint ItemCategory
	Position     int
	Line         int
}

// LineItem is one assembled invoice entry: a name candidate paired with the
// price and quantity found on its line. Candidates are transient; only the
// assembled LineItem flows downstream.
type LineItem struct {
	DeliveryDate time.Time
	Name         string
	PackSize     string
	Category     ItemCategory
	Price        float64
	Quantity     int
}
