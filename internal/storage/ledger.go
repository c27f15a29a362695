package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// The functions in this file keep the account-balance invariant:
//
//	balance == initial balance + sum of signed effects of linked transactions
//
// Each operation writes the transaction row and the balance adjustment in
// one database transaction. Adjustments are relative increments, so the
// result is the same regardless of how concurrent writers interleave.

func adjustBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, deltaCents int64) error {
	if deltaCents == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = ? WHERE id = ?`,
		deltaCents, formatTime(time.Now()), accountID.String())
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	return requireRow(res)
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t core.Transaction) error {
	var recurFreq, recurNext any
	if t.Recurrence != nil {
		recurFreq = string(t.Recurrence.Frequency)
		recurNext = formatDate(t.Recurrence.NextDate)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), t.AccountID.String(), t.CategoryID.String(),
		t.Amount.Cents, string(t.Type), formatDate(t.Date), t.Description,
		encodeTags(t.Tags), recurFreq, recurNext,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertTransaction persists a transaction and applies its signed effect
// to the owning account.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertTransaction(ctx, tx, t); err != nil {
			return err
		}
		return adjustBalance(ctx, tx, t.AccountID, t.SignedCents())
	})
}

// UpdateTransaction replaces old with updated, reversing the old effect on
// the old account and applying the new effect on the new account. When the
// account changed, both accounts are touched.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, old, updated core.Transaction) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		var recurFreq, recurNext any
		if updated.Recurrence != nil {
			recurFreq = string(updated.Recurrence.Frequency)
			recurNext = formatDate(updated.Recurrence.NextDate)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE transactions SET account_id = ?, category_id = ?, amount_cents = ?, type = ?,
			 date = ?, description = ?, tags = ?, recur_frequency = ?, recur_next_date = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?`,
			updated.AccountID.String(), updated.CategoryID.String(), updated.Amount.Cents,
			string(updated.Type), formatDate(updated.Date), updated.Description,
			encodeTags(updated.Tags), recurFreq, recurNext, formatTime(time.Now()),
			updated.ID.String(), updated.UserID.String())
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}

		if old.AccountID == updated.AccountID {
			return adjustBalance(ctx, tx, old.AccountID, updated.SignedCents()-old.SignedCents())
		}
		if err := adjustBalance(ctx, tx, old.AccountID, -old.SignedCents()); err != nil {
			return err
		}
		return adjustBalance(ctx, tx, updated.AccountID, updated.SignedCents())
	})
}

// DeleteTransaction reverses the transaction's effect on its account and
// removes the row.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, t core.Transaction) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = ? AND user_id = ?`,
			t.ID.String(), t.UserID.String())
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return adjustBalance(ctx, tx, t.AccountID, -t.SignedCents())
	})
}

// BulkInsertTransactions inserts a validated batch and applies balance
// deltas aggregated per account, one update per touched account rather
// than one per row.
func (r *SQLiteRepository) BulkInsertTransactions(ctx context.Context, ts []core.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		deltas := make(map[uuid.UUID]int64)
		order := make([]uuid.UUID, 0, 1)
		for _, t := range ts {
			if err := insertTransaction(ctx, tx, t); err != nil {
				return err
			}
			if _, seen := deltas[t.AccountID]; !seen {
				order = append(order, t.AccountID)
			}
			deltas[t.AccountID] += t.SignedCents()
		}
		for _, accountID := range order {
			if err := adjustBalance(ctx, tx, accountID, deltas[accountID]); err != nil {
				return err
			}
		}
		return nil
	})
}
