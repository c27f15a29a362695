package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// SumsByType returns total income and expense cents for the owner within
// the inclusive date range.
func (r *SQLiteRepository) SumsByType(ctx context.Context, userID uuid.UUID, from, to string) (income, expense int64, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID.String(), from, to).Scan(&income, &expense)
	if err != nil {
		return 0, 0, fmt.Errorf("sums by type: %w", err)
	}
	return income, expense, nil
}

// BreakdownByCategory groups the owner's transactions in the range by
// category and type.
func (r *SQLiteRepository) BreakdownByCategory(ctx context.Context, userID uuid.UUID, from, to string) ([]core.BreakdownRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.category_id, c.name, t.type, SUM(t.amount_cents), COUNT(*)
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.date >= ? AND t.date <= ?
		 GROUP BY t.category_id, t.type
		 ORDER BY SUM(t.amount_cents) DESC`,
		userID.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("breakdown by category: %w", err)
	}
	return collectBreakdown(rows)
}

// BreakdownByAccount groups the owner's transactions in the range by
// account and type.
func (r *SQLiteRepository) BreakdownByAccount(ctx context.Context, userID uuid.UUID, from, to string) ([]core.BreakdownRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.account_id, a.name, t.type, SUM(t.amount_cents), COUNT(*)
		 FROM transactions t
		 JOIN accounts a ON a.id = t.account_id
		 WHERE t.user_id = ? AND t.date >= ? AND t.date <= ?
		 GROUP BY t.account_id, t.type
		 ORDER BY SUM(t.amount_cents) DESC`,
		userID.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("breakdown by account: %w", err)
	}
	return collectBreakdown(rows)
}

func collectBreakdown(rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}) ([]core.BreakdownRow, error) {
	defer rows.Close()
	var out []core.BreakdownRow
	for rows.Next() {
		var (
			id, name, typ string
			total         int64
			count         int
		)
		if err := rows.Scan(&id, &name, &typ, &total, &count); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		row := core.BreakdownRow{
			Name:  name,
			Type:  core.TransactionType(typ),
			Total: core.Money{Cents: total},
			Count: count,
		}
		row.ID, _ = uuid.Parse(id)
		if count > 0 {
			// Integer cents division matches 2-decimal presentation.
			row.Average = core.Money{Cents: total / int64(count)}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyTotal is one year-month bucket of income and expense sums.
type MonthlyTotal struct {
	YearMonth string // YYYY-MM
	Income    int64
	Expense   int64
}

// MonthlyTotals buckets the owner's transactions from the given date by
// calendar year+month.
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, userID uuid.UUID, from string) ([]MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(date, 1, 7),
		        COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE user_id = ? AND date >= ?
		 GROUP BY substr(date, 1, 7)
		 ORDER BY substr(date, 1, 7)`,
		userID.String(), from)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var out []MonthlyTotal
	for rows.Next() {
		var m MonthlyTotal
		if err := rows.Scan(&m.YearMonth, &m.Income, &m.Expense); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SpentForCategory sums expense cents for one category within the range.
func (r *SQLiteRepository) SpentForCategory(ctx context.Context, userID, categoryID uuid.UUID, from, to string) (int64, error) {
	var spent int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category_id = ? AND type = 'expense' AND date >= ? AND date <= ?`,
		userID.String(), categoryID.String(), from, to).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("spent for category: %w", err)
	}
	return spent, nil
}

// DailyNet is a day's summed signed effect on one account.
type DailyNet struct {
	Date string // YYYY-MM-DD
	Net  int64
}

// DailyNetForAccount returns per-day signed sums for the account from the
// given date onward, used to reconstruct balance history backwards from
// the current balance.
func (r *SQLiteRepository) DailyNetForAccount(ctx context.Context, userID, accountID uuid.UUID, from string) ([]DailyNet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, SUM(CASE WHEN type = 'income' THEN amount_cents ELSE -amount_cents END)
		 FROM transactions
		 WHERE user_id = ? AND account_id = ? AND date >= ?
		 GROUP BY date ORDER BY date`,
		userID.String(), accountID.String(), from)
	if err != nil {
		return nil, fmt.Errorf("daily net for account: %w", err)
	}
	defer rows.Close()

	var out []DailyNet
	for rows.Next() {
		var d DailyNet
		if err := rows.Scan(&d.Date, &d.Net); err != nil {
			return nil, fmt.Errorf("scan daily net: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
