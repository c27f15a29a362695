package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const accountColumns = `id, user_id, name, type, balance_cents, initial_balance_cents,
	credit_limit_cents, is_active, created_at, updated_at`

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.UserID.String(), a.Name, string(a.Type),
		a.Balance.Cents, a.InitialBalance.Cents, a.CreditLimit.Cents,
		boolToInt(a.IsActive), formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account name already in use: %w", core.ErrConflict)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, userID, id uuid.UUID) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return scanAccount(row.Scan)
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]core.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = ?`
	if !includeInactive {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, q, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FirstActiveAccount returns the owner's oldest active account, used as
// the import target for bulk rows.
func (r *SQLiteRepository) FirstActiveAccount(ctx context.Context, userID uuid.UUID) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE user_id = ? AND is_active = 1 ORDER BY created_at LIMIT 1`,
		userID.String())
	a, err := scanAccount(row.Scan)
	if errors.Is(err, core.ErrNotFound) {
		return core.Account{}, core.ErrNoAccountAvailable
	}
	return a, err
}

// UpdateAccount persists the mutable account fields.
func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, credit_limit_cents = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		a.Name, string(a.Type), a.CreditLimit.Cents, boolToInt(a.IsActive),
		formatTime(time.Now()), a.ID.String(), a.UserID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account name already in use: %w", core.ErrConflict)
		}
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeactivateAccount(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_active = 0, updated_at = ? WHERE id = ? AND user_id = ?`,
		formatTime(time.Now()), id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CountAccountTransactions(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = ? AND user_id = ?`,
		accountID.String(), userID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count account transactions: %w", err)
	}
	return n, nil
}

// TotalActiveBalanceCents sums balances across the owner's active accounts.
func (r *SQLiteRepository) TotalActiveBalanceCents(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(balance_cents) FROM accounts WHERE user_id = ? AND is_active = 1`,
		userID.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total active balance: %w", err)
	}
	return total.Int64, nil
}

// CreditDebtCents sums absolute balances over active credit accounts.
func (r *SQLiteRepository) CreditDebtCents(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(ABS(balance_cents)) FROM accounts
		 WHERE user_id = ? AND type = 'credit' AND is_active = 1`,
		userID.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("credit debt: %w", err)
	}
	return total.Int64, nil
}

func scanAccount(scan func(dest ...any) error) (core.Account, error) {
	var (
		a                              core.Account
		id, userID, typ                string
		active                         int
		createdAt, updatedAt           string
	)
	err := scan(&id, &userID, &a.Name, &typ, &a.Balance.Cents, &a.InitialBalance.Cents,
		&a.CreditLimit.Cents, &active, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	a.ID, _ = uuid.Parse(id)
	a.UserID, _ = uuid.Parse(userID)
	a.Type = core.AccountType(typ)
	a.IsActive = active == 1
	a.CreatedAt = parseStoredTime(createdAt)
	a.UpdatedAt = parseStoredTime(updatedAt)
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow converts a zero-row update/delete into ErrNotFound so the
// ownership filter and existence check stay a single query.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
