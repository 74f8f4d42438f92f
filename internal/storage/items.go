package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/match"
	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// UpsertItem returns the catalog item matching the given name, category, and
// pack size, creating it on first encounter. Identity compares normalized
// names, so spelling variants of an already cataloged item resolve to the
// existing row.
func (s *SQLiteStorage) UpsertItem(ctx context.Context, item *model.CanonicalItem) (*model.CanonicalItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	// Serialize check-then-insert so two concurrent first encounters of the
	// same item cannot both insert.
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	existing, err := s.findItemTx(ctx, s.db, item.Name, item.Category, item.PackSize)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if existing != nil {
		_, err = s.db.ExecContext(ctx, `
			UPDATE items SET last_updated = ? WHERE id = ?
		`, now, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to touch item: %w", err)
		}
		existing.LastUpdated = now
		return existing, nil
	}

	name := strings.TrimSpace(item.Name)
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items (name, category, pack_size, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?)
	`, name, item.Category, item.PackSize, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item %q: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get item id: %w", err)
	}

	return &model.CanonicalItem{
		ID:          id,
		Name:        name,
		Category:    item.Category,
		PackSize:    item.PackSize,
		CreatedAt:   now,
		LastUpdated: now,
	}, nil
}

// GetItems returns the full catalog ordered by category then name.
func (s *SQLiteStorage) GetItems(ctx context.Context) ([]model.CanonicalItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryItems(ctx, `
		SELECT id, name, category, pack_size, created_at, last_updated
		FROM items
		ORDER BY category, name
	`)
}

// GetItemsByCategory returns catalog items in one category.
func (s *SQLiteStorage) GetItemsByCategory(ctx context.Context, category model.ItemCategory) ([]model.CanonicalItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidItem, category)
	}
	return s.queryItems(ctx, `
		SELECT id, name, category, pack_size, created_at, last_updated
		FROM items
		WHERE category = ?
		ORDER BY name
	`, category)
}

func (s *SQLiteStorage) queryItems(ctx context.Context, query string, args ...any) ([]model.CanonicalItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.CanonicalItem
	for rows.Next() {
		var item model.CanonicalItem
		if scanErr := rows.Scan(&item.ID, &item.Name, &item.Category, &item.PackSize, &item.CreatedAt, &item.LastUpdated); scanErr != nil {
			return nil, fmt.Errorf("failed to scan item: %w", scanErr)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// findItemTx looks up an item by normalized identity within one category.
func (s *SQLiteStorage) findItemTx(ctx context.Context, q queryable, name string, category model.ItemCategory, packSize string) (*model.CanonicalItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, category, pack_size, created_at, last_updated
		FROM items
		WHERE category = ? AND pack_size = ?
	`, category, packSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	normalized := match.Normalize(name)
	for rows.Next() {
		var item model.CanonicalItem
		if scanErr := rows.Scan(&item.ID, &item.Name, &item.Category, &item.PackSize, &item.CreatedAt, &item.LastUpdated); scanErr != nil {
			return nil, fmt.Errorf("failed to scan item: %w", scanErr)
		}
		if match.Normalize(item.Name) == normalized {
			return &item, nil
		}
	}
	return nil, rows.Err()
}

// itemKey is the lock key for one item identity.
func itemKey(name string, category model.ItemCategory, packSize string) string {
	return match.Normalize(name) + "|" + string(category) + "|" + packSize
}
