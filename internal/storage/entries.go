package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/common"
	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// ApplyLineItem folds one assembled line item into the given period.
// Quantity accumulates across deliveries of the same item; price is
// overwritten with the latest observed value when one was extracted. The
// item is created in the catalog on first encounter.
//
// Writers for the same item identity are serialized, so concurrent
// deliveries cannot lose an update. Rollover is excluded for the duration of
// the call.
func (s *SQLiteStorage) ApplyLineItem(ctx context.Context, periodID int64, line model.LineItem) (*model.LedgerEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLineItem(&line); err != nil {
		return nil, err
	}

	s.periodGate.RLock()
	defer s.periodGate.RUnlock()

	mu := s.lockItem(itemKey(line.Name, line.Category, line.PackSize))
	mu.Lock()
	defer mu.Unlock()

	item, err := s.UpsertItem(ctx, &model.CanonicalItem{
		Name:     line.Name,
		Category: line.Category,
		PackSize: line.PackSize,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	deliveryDate := line.DeliveryDate
	if deliveryDate.IsZero() {
		deliveryDate = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (period_id, item_id, quantity, price, last_delivery_date, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_id, item_id) DO UPDATE SET
			quantity = quantity + excluded.quantity,
			price = CASE WHEN excluded.price > 0 THEN excluded.price ELSE price END,
			last_delivery_date = excluded.last_delivery_date,
			last_updated = excluded.last_updated
	`, periodID, item.ID, line.Quantity, line.Price, deliveryDate, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to apply line item %q: %w", line.Name, err)
	}

	return s.getEntryTx(ctx, s.db, periodID, item.ID)
}

// EntriesByPeriod returns the period's inventory joined with catalog items,
// ordered by category then name.
func (s *SQLiteStorage) EntriesByPeriod(ctx context.Context, periodID int64) ([]model.InventoryRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.period_id, e.quantity, e.price, e.last_delivery_date,
		       i.id, i.name, i.category, i.pack_size, i.created_at, i.last_updated
		FROM entries e
		JOIN items i ON i.id = e.item_id
		WHERE e.period_id = ?
		ORDER BY i.category, i.name
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.InventoryRecord
	for rows.Next() {
		var rec model.InventoryRecord
		var deliveryDate sql.NullTime
		if scanErr := rows.Scan(
			&rec.PeriodID,
			&rec.Quantity,
			&rec.Price,
			&deliveryDate,
			&rec.Item.ID,
			&rec.Item.Name,
			&rec.Item.Category,
			&rec.Item.PackSize,
			&rec.Item.CreatedAt,
			&rec.Item.LastUpdated,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", scanErr)
		}
		if deliveryDate.Valid {
			rec.LastDeliveryDate = deliveryDate.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStorage) getEntryTx(ctx context.Context, q queryable, periodID, itemID int64) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	var deliveryDate sql.NullTime

	err := q.QueryRowContext(ctx, `
		SELECT id, period_id, item_id, quantity, price, last_delivery_date, created_at, last_updated
		FROM entries
		WHERE period_id = ? AND item_id = ?
	`, periodID, itemID).Scan(
		&entry.ID,
		&entry.PeriodID,
		&entry.ItemID,
		&entry.Quantity,
		&entry.Price,
		&deliveryDate,
		&entry.CreatedAt,
		&entry.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: entry for period %d item %d", common.ErrNotFound, periodID, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	if deliveryDate.Valid {
		entry.LastDeliveryDate = deliveryDate.Time
	}
	return &entry, nil
}
