package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// RecordDocument appends a provenance record for one processed source file.
func (s *SQLiteStorage) RecordDocument(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	processedAt := doc.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (period_id, filename, items_count, note, processed_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.PeriodID, doc.Filename, doc.ItemsCount, doc.Note, processedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record document %q: %w", doc.Filename, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get document id: %w", err)
	}

	recorded := *doc
	recorded.ID = id
	recorded.ProcessedAt = processedAt
	return &recorded, nil
}

// DocumentsByPeriod returns every document processed into one period, most
// recent first.
func (s *SQLiteStorage) DocumentsByPeriod(ctx context.Context, periodID int64) ([]model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, period_id, filename, items_count, note, processed_at
		FROM documents
		WHERE period_id = ?
		ORDER BY processed_at DESC, id DESC
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if scanErr := rows.Scan(&doc.ID, &doc.PeriodID, &doc.Filename, &doc.ItemsCount, &doc.Note, &doc.ProcessedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan document: %w", scanErr)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
