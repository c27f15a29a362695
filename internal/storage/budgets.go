package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const budgetColumns = `id, user_id, category_id, amount_cents, start_date, end_date,
	alert_threshold, is_active, created_at`

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID.String(), b.UserID.String(), b.CategoryID.String(), b.Amount.Cents,
		formatDate(b.StartDate), formatDate(b.EndDate), b.AlertThreshold,
		boolToInt(b.IsActive), formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id uuid.UUID) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return scanBudget(row.Scan)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]core.Budget, error) {
	q := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ?`
	if !includeInactive {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, q, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, amount_cents = ?, start_date = ?, end_date = ?,
		 alert_threshold = ?, is_active = ?
		 WHERE id = ? AND user_id = ?`,
		b.CategoryID.String(), b.Amount.Cents, formatDate(b.StartDate), formatDate(b.EndDate),
		b.AlertThreshold, boolToInt(b.IsActive), b.ID.String(), b.UserID.String())
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

// HasOverlappingBudget reports whether an active budget for the same
// owner and category intersects [start, end], excluding excludeID (pass
// uuid.Nil on create).
func (r *SQLiteRepository) HasOverlappingBudget(ctx context.Context, userID, categoryID uuid.UUID, start, end string, excludeID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets
		 WHERE user_id = ? AND category_id = ? AND is_active = 1
		   AND start_date <= ? AND ? <= end_date AND id != ?`,
		userID.String(), categoryID.String(), end, start, excludeID.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check budget overlap: %w", err)
	}
	return n > 0, nil
}

// ActiveBudgetsCovering returns active budgets whose window includes day.
// categoryID narrows to one category when not Nil.
func (r *SQLiteRepository) ActiveBudgetsCovering(ctx context.Context, userID uuid.UUID, day string, categoryID uuid.UUID) ([]core.Budget, error) {
	q := `SELECT ` + budgetColumns + ` FROM budgets
	      WHERE user_id = ? AND is_active = 1 AND start_date <= ? AND end_date >= ?`
	args := []any{userID.String(), day, day}
	if categoryID != uuid.Nil {
		q += ` AND category_id = ?`
		args = append(args, categoryID.String())
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("active budgets covering: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func scanBudget(scan func(dest ...any) error) (core.Budget, error) {
	var (
		b                        core.Budget
		id, userID, categoryID   string
		startDate, endDate       string
		active                   int
		createdAt                string
	)
	err := scan(&id, &userID, &categoryID, &b.Amount.Cents, &startDate, &endDate,
		&b.AlertThreshold, &active, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	b.ID, _ = uuid.Parse(id)
	b.UserID, _ = uuid.Parse(userID)
	b.CategoryID, _ = uuid.Parse(categoryID)
	b.StartDate = parseStoredDate(startDate)
	b.EndDate = parseStoredDate(endDate)
	b.IsActive = active == 1
	b.CreatedAt = parseStoredTime(createdAt)
	return b, nil
}
