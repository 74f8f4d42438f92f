package storage

import (
	"context"
	"testing"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

func TestAddCorrectionAndSuggest(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	saved, err := store.AddCorrection(ctx, &model.Correction{
		OriginalText:  "Hienz Mstrd",
		CorrectedName: "Heinz Mustard",
		Category:      model.CategoryFood,
	})
	if err != nil {
		t.Fatalf("AddCorrection failed: %v", err)
	}
	if saved.Confidence != 0.5 {
		t.Errorf("default confidence = %f, want 0.5", saved.Confidence)
	}

	got, err := store.SuggestCorrection(ctx, "Hienz Mstrd")
	if err != nil {
		t.Fatalf("SuggestCorrection failed: %v", err)
	}
	if got == nil || got.CorrectedName != "Heinz Mustard" {
		t.Fatalf("unexpected suggestion: %+v", got)
	}
}

func TestAddCorrectionReaffirmationRaisesConfidence(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	c := &model.Correction{OriginalText: "Hienz Mstrd", CorrectedName: "Heinz Mustard", Category: model.CategoryFood}

	first, err := store.AddCorrection(ctx, c)
	if err != nil {
		t.Fatalf("AddCorrection failed: %v", err)
	}

	second, err := store.AddCorrection(ctx, c)
	if err != nil {
		t.Fatalf("reaffirmation failed: %v", err)
	}

	if second.ID != first.ID {
		t.Error("reaffirmation must not create a new row")
	}
	want := first.Confidence + reaffirmBoost
	if diff := second.Confidence - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("Confidence = %f, want %f", second.Confidence, want)
	}

	// Confidence is capped at 1.0
	for i := 0; i < 10; i++ {
		if _, err := store.AddCorrection(ctx, c); err != nil {
			t.Fatalf("reaffirmation %d failed: %v", i, err)
		}
	}
	final, err := store.SuggestCorrection(ctx, "Hienz Mstrd")
	if err != nil {
		t.Fatalf("SuggestCorrection failed: %v", err)
	}
	if final.Confidence > model.MaxCorrectionConfidence {
		t.Errorf("Confidence = %f exceeds cap", final.Confidence)
	}
}

func TestSuggestCorrectionSubstringMatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.AddCorrection(ctx, &model.Correction{
		OriginalText:  "Mstrd",
		CorrectedName: "Heinz Mustard",
	})
	if err != nil {
		t.Fatalf("AddCorrection failed: %v", err)
	}

	got, err := store.SuggestCorrection(ctx, "2 cs Hienz Mstrd 24.99")
	if err != nil {
		t.Fatalf("SuggestCorrection failed: %v", err)
	}
	if got == nil || got.CorrectedName != "Heinz Mustard" {
		t.Fatalf("unexpected suggestion: %+v", got)
	}
}

func TestSuggestCorrectionSuperstringMatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// The stored text is fuller than the query; truncated OCR output must
	// still find it.
	_, err := store.AddCorrection(ctx, &model.Correction{
		OriginalText:  "zyzx mustrd 16oz",
		CorrectedName: "Heinz Mustard",
	})
	if err != nil {
		t.Fatalf("AddCorrection failed: %v", err)
	}

	got, err := store.SuggestCorrection(ctx, "zyzx mustrd")
	if err != nil {
		t.Fatalf("SuggestCorrection failed: %v", err)
	}
	if got == nil || got.CorrectedName != "Heinz Mustard" {
		t.Fatalf("unexpected suggestion: %+v", got)
	}
}

func TestSuggestCorrectionNoMatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.SuggestCorrection(context.Background(), "nothing like this")
	if err != nil {
		t.Fatalf("SuggestCorrection failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil suggestion, got %+v", got)
	}
}

func TestListCorrectionsOrderedByConfidence(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	low := &model.Correction{OriginalText: "aaa", CorrectedName: "Item A", Confidence: 0.5}
	high := &model.Correction{OriginalText: "bbb", CorrectedName: "Item B", Confidence: 0.9}

	if _, err := store.AddCorrection(ctx, low); err != nil {
		t.Fatalf("AddCorrection failed: %v", err)
	}
	if _, err := store.AddCorrection(ctx, high); err != nil {
		t.Fatalf("AddCorrection failed: %v", err)
	}

	all, err := store.ListCorrections(ctx)
	if err != nil {
		t.Fatalf("ListCorrections failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 corrections, got %d", len(all))
	}
	if all[0].CorrectedName != "Item B" {
		t.Errorf("expected highest confidence first, got %+v", all[0])
	}
}

func TestAddCorrectionValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.AddCorrection(ctx, nil); err == nil {
		t.Error("expected error for nil correction")
	}
	if _, err := store.AddCorrection(ctx, &model.Correction{CorrectedName: "X"}); err == nil {
		t.Error("expected error for missing original text")
	}
	if _, err := store.AddCorrection(ctx, &model.Correction{OriginalText: "x", CorrectedName: "X", Confidence: 1.5}); err == nil {
		t.Error("expected error for out-of-range confidence")
	}
}
