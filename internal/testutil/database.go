// Package testutil provides shared test fixtures: migrated in-memory
// databases with optional seeded catalogs.
package testutil

import (
	"context"
	"testing"

	"github.com/TechsNtheCity940/stockflow/internal/model"
	"github.com/TechsNtheCity940/stockflow/internal/storage"
)

// SetupTestDB creates a migrated in-memory database seeded with the given
// catalog items. Cleanup is registered automatically.
func SetupTestDB(t *testing.T, items ...model.CanonicalItem) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range items {
		if _, err := store.UpsertItem(ctx, &items[i]); err != nil {
			t.Fatalf("failed to seed item %q: %v", items[i].Name, err)
		}
	}

	return store
}

// SampleCatalog returns a small catalog covering every category, for tests
// that need realistic matching targets.
func SampleCatalog() []model.CanonicalItem {
	return []model.CanonicalItem{
		{Name: "Heinz Mustard 16oz", Category: model.CategoryFood},
		{Name: "Roma Tomato Crates", Category: model.CategoryFood, PackSize: "25 lb"},
		{Name: "House Merlot", Category: model.CategoryAlcohol, PackSize: "12/750 ml"},
		{Name: "Paper Napkins", Category: model.CategoryOther, PackSize: "10/100 ct"},
	}
}
