package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const transactionColumns = `id, user_id, account_id, category_id, amount_cents, type, date,
	description, tags, recur_frequency, recur_next_date, created_at, updated_at`

// TransactionFilter narrows and orders a transaction listing. Date bounds
// are inclusive YYYY-MM-DD strings; empty means unbounded.
type TransactionFilter struct {
	From       string
	To         string
	AccountID  uuid.UUID
	CategoryID uuid.UUID
	Type       core.TransactionType
	Search     string
	SortBy     string // date, amount, description, created_at
	SortDesc   bool
	Limit      int
	Offset     int
}

var sortColumns = map[string]string{
	"date":        "date",
	"amount":      "amount_cents",
	"description": "description",
	"created_at":  "created_at",
}

func (f TransactionFilter) where(userID uuid.UUID) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{userID.String()}
	if f.From != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, f.To)
	}
	if f.AccountID != uuid.Nil {
		clauses = append(clauses, "account_id = ?")
		args = append(args, f.AccountID.String())
	}
	if f.CategoryID != uuid.Nil {
		clauses = append(clauses, "category_id = ?")
		args = append(args, f.CategoryID.String())
	}
	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Search != "" {
		clauses = append(clauses, "description LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}
	return strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID uuid.UUID, f TransactionFilter) ([]core.Transaction, int64, error) {
	where, args := f.where(userID)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "date"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	q := fmt.Sprintf(`SELECT %s FROM transactions WHERE %s ORDER BY %s %s, created_at %s`,
		transactionColumns, where, col, dir, dir)
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, t)
	}
	return txs, total, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id uuid.UUID) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return scanTransaction(row.Scan)
}

func scanTransaction(scan func(dest ...any) error) (core.Transaction, error) {
	var (
		t                        core.Transaction
		id, userID, accountID    string
		categoryID, typ, date    string
		tags                     string
		recurFreq, recurNext     sql.NullString
		createdAt, updatedAt     string
	)
	err := scan(&id, &userID, &accountID, &categoryID, &t.Amount.Cents, &typ, &date,
		&t.Description, &tags, &recurFreq, &recurNext, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.ID, _ = uuid.Parse(id)
	t.UserID, _ = uuid.Parse(userID)
	t.AccountID, _ = uuid.Parse(accountID)
	t.CategoryID, _ = uuid.Parse(categoryID)
	t.Type = core.TransactionType(typ)
	t.Date = parseStoredDate(date)
	t.Tags = decodeTags(tags)
	if recurFreq.Valid {
		rec := &core.Recurrence{Frequency: core.Frequency(recurFreq.String)}
		if recurNext.Valid {
			rec.NextDate = parseStoredDate(recurNext.String)
		}
		t.Recurrence = rec
	}
	t.CreatedAt = parseStoredTime(createdAt)
	t.UpdatedAt = parseStoredTime(updatedAt)
	return t, nil
}
