package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// reaffirmBoost is added to a correction's confidence each time the same
// mapping is confirmed again.
const reaffirmBoost = 0.1

// AddCorrection stores a learned text-to-item mapping. Repeating an existing
// mapping raises its confidence instead of inserting a duplicate.
func (s *SQLiteStorage) AddCorrection(ctx context.Context, correction *model.Correction) (*model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCorrection(correction); err != nil {
		return nil, err
	}

	confidence := correction.Confidence
	if confidence == 0 {
		confidence = 0.5
	}
	category := correction.Category
	if category == "" {
		category = model.CategoryOther
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO corrections (original_text, corrected_name, category, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(original_text, corrected_name) DO UPDATE SET
			confidence = MIN(1.0, confidence + ?),
			category = excluded.category
	`, correction.OriginalText, correction.CorrectedName, category, confidence, time.Now(), reaffirmBoost)
	if err != nil {
		return nil, fmt.Errorf("failed to save correction: %w", err)
	}

	return s.getCorrectionTx(ctx, s.db, correction.OriginalText, correction.CorrectedName)
}

// SuggestCorrection returns the best correction for the given text, exact
// matches first, then containment matches in either direction: a stored
// fragment inside the text, or the text inside a stored fuller string. A nil
// result with nil error means no correction applies.
func (s *SQLiteStorage) SuggestCorrection(ctx context.Context, text string) (*model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(text, "text"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, original_text, corrected_name, category, confidence, created_at
		FROM corrections
		WHERE original_text = ?
		ORDER BY confidence DESC
		LIMIT 1
	`, text)
	correction, err := scanCorrection(row)
	if err == nil {
		return correction, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT id, original_text, corrected_name, category, confidence, created_at
		FROM corrections
		WHERE ? LIKE '%' || original_text || '%'
		   OR original_text LIKE '%' || ? || '%'
		ORDER BY confidence DESC, LENGTH(original_text) DESC
		LIMIT 1
	`, text, text)
	correction, err = scanCorrection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return correction, nil
}

// ListCorrections returns every stored correction, highest confidence first.
func (s *SQLiteStorage) ListCorrections(ctx context.Context) ([]model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, original_text, corrected_name, category, confidence, created_at
		FROM corrections
		ORDER BY confidence DESC, original_text
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var corrections []model.Correction
	for rows.Next() {
		var c model.Correction
		if scanErr := rows.Scan(&c.ID, &c.OriginalText, &c.CorrectedName, &c.Category, &c.Confidence, &c.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", scanErr)
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}

func (s *SQLiteStorage) getCorrectionTx(ctx context.Context, q queryable, originalText, correctedName string) (*model.Correction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, original_text, corrected_name, category, confidence, created_at
		FROM corrections
		WHERE original_text = ? AND corrected_name = ?
	`, originalText, correctedName)

	correction, err := scanCorrection(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get correction: %w", err)
	}
	return correction, nil
}

func scanCorrection(row *sql.Row) (*model.Correction, error) {
	var c model.Correction
	err := row.Scan(&c.ID, &c.OriginalText, &c.CorrectedName, &c.Category, &c.Confidence, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
