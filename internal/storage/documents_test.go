package storage

import (
	"context"
	"testing"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

func TestRecordDocumentAndList(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	period, err := store.ActivePeriod(ctx)
	if err != nil {
		t.Fatalf("ActivePeriod failed: %v", err)
	}

	doc, err := store.RecordDocument(ctx, &model.Document{
		PeriodID:   period.ID,
		Filename:   "invoice-0812.txt",
		ItemsCount: 3,
	})
	if err != nil {
		t.Fatalf("RecordDocument failed: %v", err)
	}
	if doc.ID == 0 {
		t.Error("expected assigned ID")
	}
	if doc.ProcessedAt.IsZero() {
		t.Error("expected ProcessedAt to be set")
	}

	// Failed documents are recorded too, with a note
	if _, err := store.RecordDocument(ctx, &model.Document{
		PeriodID: period.ID,
		Filename: "garbled.txt",
		Note:     "document contains no extractable text",
	}); err != nil {
		t.Fatalf("RecordDocument with note failed: %v", err)
	}

	docs, err := store.DocumentsByPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("DocumentsByPeriod failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestRecordDocumentValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.RecordDocument(ctx, nil); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := store.RecordDocument(ctx, &model.Document{PeriodID: 1}); err == nil {
		t.Error("expected error for missing filename")
	}
	if _, err := store.RecordDocument(ctx, &model.Document{PeriodID: 1, Filename: "x", ItemsCount: -1}); err == nil {
		t.Error("expected error for negative items count")
	}
}
