package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/common"
	"github.com/TechsNtheCity940/stockflow/internal/model"
	"github.com/TechsNtheCity940/stockflow/internal/service"
)

// ActivePeriod returns the currently active ledger period, creating one
// labeled with the current month when none exists.
func (s *SQLiteStorage) ActivePeriod(ctx context.Context) (*model.LedgerPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	period, err := s.getActivePeriodTx(ctx, s.db)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	// Creation takes the period gate so two concurrent first calls cannot
	// open two active periods.
	s.periodGate.Lock()
	defer s.periodGate.Unlock()

	period, err = s.getActivePeriodTx(ctx, s.db)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	return s.openPeriod(ctx, time.Now().Format("January 2006"))
}

// RollOver closes the active period and opens a new one with the given
// label. Line applications in flight block rollover until they finish.
func (s *SQLiteStorage) RollOver(ctx context.Context, label string) (*model.LedgerPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if label == "" {
		label = time.Now().Format("January 2006")
	}

	s.periodGate.Lock()
	defer s.periodGate.Unlock()

	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		UPDATE periods SET is_active = 0, end_date = ? WHERE is_active = 1
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to close active period: %w", err)
	}

	return s.openPeriod(ctx, label)
}

// ListPeriods returns all periods, newest first.
func (s *SQLiteStorage) ListPeriods(ctx context.Context) ([]model.LedgerPeriod, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, start_date, end_date, is_active, created_at
		FROM periods
		ORDER BY start_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var periods []model.LedgerPeriod
	for rows.Next() {
		period, scanErr := scanPeriod(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		periods = append(periods, *period)
	}
	return periods, rows.Err()
}

// PeriodSummary aggregates a period's entries by category.
func (s *SQLiteStorage) PeriodSummary(ctx context.Context, periodID int64) (*service.PeriodSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var label string
	err := s.db.QueryRowContext(ctx, `SELECT label FROM periods WHERE id = ?`, periodID).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: period %d", common.ErrNotFound, periodID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}

	summary := &service.PeriodSummary{
		PeriodID:    periodID,
		PeriodLabel: label,
		ByCategory:  make(map[model.ItemCategory]service.CategoryTotals),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.category, COUNT(*), COALESCE(SUM(e.quantity), 0), COALESCE(SUM(e.quantity * e.price), 0)
		FROM entries e
		JOIN items i ON i.id = e.item_id
		WHERE e.period_id = ?
		GROUP BY i.category
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize period: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category model.ItemCategory
		var totals service.CategoryTotals
		if scanErr := rows.Scan(&category, &totals.ItemCount, &totals.Quantity, &totals.Value); scanErr != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", scanErr)
		}
		summary.ByCategory[category] = totals
		summary.ItemCount += totals.ItemCount
		summary.TotalQuantity += totals.Quantity
		summary.TotalValue += totals.Value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents WHERE period_id = ?
	`, periodID).Scan(&summary.DocumentCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	return summary, nil
}

// openPeriod always inserts a fresh row. Reusing a label opens a new,
// distinct period; closed periods with the same label stay frozen.
func (s *SQLiteStorage) openPeriod(ctx context.Context, label string) (*model.LedgerPeriod, error) {
	now := time.Now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO periods (label, start_date, is_active)
		VALUES (?, ?, 1)
	`, label, now)
	if err != nil {
		return nil, fmt.Errorf("failed to open period %q: %w", label, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve new period id: %w", err)
	}

	return s.getPeriodByIDTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getActivePeriodTx(ctx context.Context, q queryable) (*model.LedgerPeriod, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, label, start_date, end_date, is_active, created_at
		FROM periods
		WHERE is_active = 1
		ORDER BY id DESC
		LIMIT 1
	`)
	period, err := scanPeriodRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: active period", common.ErrNotFound)
	}
	return period, err
}

func (s *SQLiteStorage) getPeriodByIDTx(ctx context.Context, q queryable, id int64) (*model.LedgerPeriod, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, label, start_date, end_date, is_active, created_at
		FROM periods
		WHERE id = ?
	`, id)
	period, err := scanPeriodRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: period %d", common.ErrNotFound, id)
	}
	return period, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriodInto(scanner rowScanner) (*model.LedgerPeriod, error) {
	var period model.LedgerPeriod
	var endDate sql.NullTime
	var isActive int

	if err := scanner.Scan(&period.ID, &period.Label, &period.StartDate, &endDate, &isActive, &period.CreatedAt); err != nil {
		return nil, err
	}

	if endDate.Valid {
		period.EndDate = &endDate.Time
	}
	period.IsActive = isActive != 0
	return &period, nil
}

func scanPeriod(rows *sql.Rows) (*model.LedgerPeriod, error) {
	period, err := scanPeriodInto(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan period: %w", err)
	}
	return period, nil
}

func scanPeriodRow(row *sql.Row) (*model.LedgerPeriod, error) {
	period, err := scanPeriodInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan period: %w", err)
	}
	return period, nil
}
