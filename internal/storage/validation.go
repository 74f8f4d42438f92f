package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidItem       = errors.New("invalid item")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrInvalidCorrection = errors.New("invalid correction")
	ErrInvalidDocument   = errors.New("invalid document")
	ErrNoActivePeriod    = errors.New("no active period")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItem validates a catalog item.
func validateItem(item *model.CanonicalItem) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	}
	if !model.ValidCategory(item.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, item.Category)
	}
	return nil
}

// validateLineItem validates an assembled line item before it touches the
// ledger.
func validateLineItem(line *model.LineItem) error {
	if strings.TrimSpace(line.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLineItem)
	}
	if line.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidLineItem)
	}
	if line.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidLineItem)
	}
	if !model.ValidCategory(line.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidLineItem, line.Category)
	}
	return nil
}

// validateCorrection validates a correction record.
func validateCorrection(c *model.Correction) error {
	if c == nil {
		return fmt.Errorf("%w: correction", ErrNilParameter)
	}
	if strings.TrimSpace(c.OriginalText) == "" {
		return fmt.Errorf("%w: missing original text", ErrInvalidCorrection)
	}
	if strings.TrimSpace(c.CorrectedName) == "" {
		return fmt.Errorf("%w: missing corrected name", ErrInvalidCorrection)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidCorrection)
	}
	return nil
}

// validateDocument validates a document record.
func validateDocument(doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document", ErrNilParameter)
	}
	if strings.TrimSpace(doc.Filename) == "" {
		return fmt.Errorf("%w: missing filename", ErrInvalidDocument)
	}
	if doc.ItemsCount < 0 {
		return fmt.Errorf("%w: items count cannot be negative", ErrInvalidDocument)
	}
	return nil
}
