package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

func TestApplyLineItemAccumulatesQuantityOverwritesPrice(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	period, err := store.ActivePeriod(ctx)
	if err != nil {
		t.Fatalf("ActivePeriod failed: %v", err)
	}

	first := model.LineItem{
		Name:         "Heinz Mustard",
		Category:     model.CategoryFood,
		PackSize:     "6/10 oz",
		Quantity:     2,
		Price:        24.99,
		DeliveryDate: time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
	}

	entry, err := store.ApplyLineItem(ctx, period.ID, first)
	if err != nil {
		t.Fatalf("ApplyLineItem failed: %v", err)
	}
	if entry.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", entry.Quantity)
	}

	second := first
	second.Quantity = 2
	second.Price = 26.50
	second.DeliveryDate = time.Date(2025, 8, 19, 0, 0, 0, 0, time.UTC)

	entry, err = store.ApplyLineItem(ctx, period.ID, second)
	if err != nil {
		t.Fatalf("second ApplyLineItem failed: %v", err)
	}

	if entry.Quantity != 4 {
		t.Errorf("Quantity = %d, want 4 after accumulation", entry.Quantity)
	}
	if entry.Price != 26.50 {
		t.Errorf("Price = %f, want latest price 26.50", entry.Price)
	}

	records, err := store.EntriesByPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("EntriesByPeriod failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single entry, got %d", len(records))
	}
	if !records[0].LastDeliveryDate.Equal(second.DeliveryDate) {
		t.Errorf("LastDeliveryDate = %v, want %v", records[0].LastDeliveryDate, second.DeliveryDate)
	}
}

func TestApplyLineItemKeepsPriceWhenNewPriceMissing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	period, err := store.ActivePeriod(ctx)
	if err != nil {
		t.Fatalf("ActivePeriod failed: %v", err)
	}

	line := model.LineItem{Name: "Heinz Mustard", Category: model.CategoryFood, Quantity: 2, Price: 24.99}
	if _, err := store.ApplyLineItem(ctx, period.ID, line); err != nil {
		t.Fatalf("ApplyLineItem failed: %v", err)
	}

	line.Price = 0
	entry, err := store.ApplyLineItem(ctx, period.ID, line)
	if err != nil {
		t.Fatalf("second ApplyLineItem failed: %v", err)
	}

	if entry.Price != 24.99 {
		t.Errorf("Price = %f, want retained 24.99", entry.Price)
	}
	if entry.Quantity != 4 {
		t.Errorf("Quantity = %d, want 4", entry.Quantity)
	}
}

func TestApplyLineItemValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	period, err := store.ActivePeriod(ctx)
	if err != nil {
		t.Fatalf("ActivePeriod failed: %v", err)
	}

	cases := []struct {
		name string
		line model.LineItem
	}{
		{"missing name", model.LineItem{Category: model.CategoryFood, Quantity: 1}},
		{"zero quantity", model.LineItem{Name: "Thing", Category: model.CategoryFood, Quantity: 0}},
		{"negative price", model.LineItem{Name: "Thing", Category: model.CategoryFood, Quantity: 1, Price: -1}},
		{"bad category", model.LineItem{Name: "Thing", Category: "gadgets", Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.ApplyLineItem(ctx, period.ID, tc.line); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyLineItemConcurrentSameItem(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	period, err := store.ActivePeriod(ctx)
	if err != nil {
		t.Fatalf("ActivePeriod failed: %v", err)
	}

	const workers = 10
	line := model.LineItem{Name: "Heinz Mustard", Category: model.CategoryFood, Quantity: 1, Price: 24.99}

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, applyErr := store.ApplyLineItem(ctx, period.ID, line); applyErr != nil {
				errs <- applyErr
			}
		}()
	}
	wg.Wait()
	close(errs)

	for applyErr := range errs {
		t.Fatalf("concurrent ApplyLineItem failed: %v", applyErr)
	}

	records, err := store.EntriesByPeriod(ctx, period.ID)
	if err != nil {
		t.Fatalf("EntriesByPeriod failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one entry, got %d", len(records))
	}
	if records[0].Quantity != workers {
		t.Errorf("Quantity = %d, want %d (no lost updates)", records[0].Quantity, workers)
	}

	items, err := store.GetItems(ctx)
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected one catalog item, got %d", len(items))
	}
}
