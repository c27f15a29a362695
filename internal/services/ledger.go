// Package services orchestrates the ledger operations on top of storage:
// ownership checks, the balance-consistency rules, bulk import, budget
// status, and the analytics formulas.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// LedgerService maintains the account-balance invariant as transactions
// are created, edited and removed. The storage layer performs each
// mutation and its balance adjustment in one database transaction.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(st *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{storage: st, amqpClient: amqpClient}
}

// TransactionInput carries the fields a caller may set when creating a
// transaction.
type TransactionInput struct {
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Amount      float64
	Type        core.TransactionType
	Date        time.Time
	Description string
	Tags        []string
	Frequency   core.Frequency // empty = not recurring
}

// TransactionUpdate is the explicit allow-list of updatable fields; nil
// means unchanged.
type TransactionUpdate struct {
	AccountID   *uuid.UUID
	CategoryID  *uuid.UUID
	Amount      *float64
	Type        *core.TransactionType
	Date        *time.Time
	Description *string
	Tags        *[]string
	Frequency   *core.Frequency // empty string clears the recurrence
}

// CreateTransaction verifies the referenced account and category belong
// to the owner and are active, that the category type matches, then
// persists the transaction and its signed effect atomically.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID uuid.UUID, in TransactionInput) (core.Transaction, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, core.Invalid("amount", "must be greater than zero")
	}

	now := time.Now()
	t := core.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		Amount:      amount,
		Type:        in.Type,
		Date:        in.Date,
		Description: in.Description,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Frequency != "" {
		t.Recurrence = &core.Recurrence{
			Frequency: in.Frequency,
			NextDate:  in.Frequency.Next(in.Date),
		}
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkReferences(ctx, userID, t.AccountID, t.CategoryID, t.Type); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.InsertTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID, "account_id", t.AccountID, "type", t.Type, "amount_cents", t.Amount.Cents)

	s.publishBudgetAlerts(ctx, t)
	return t, nil
}

// UpdateTransaction applies allow-listed changes, reversing the old
// effect and applying the new one; an account move touches both accounts.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, upd TransactionUpdate) (core.Transaction, error) {
	old, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}

	updated := old
	if upd.AccountID != nil {
		updated.AccountID = *upd.AccountID
	}
	if upd.CategoryID != nil {
		updated.CategoryID = *upd.CategoryID
	}
	if upd.Amount != nil {
		amount, err := core.ParseAmount(*upd.Amount)
		if err != nil {
			return core.Transaction{}, core.Invalid("amount", "must be greater than zero")
		}
		updated.Amount = amount
	}
	if upd.Type != nil {
		updated.Type = *upd.Type
	}
	if upd.Date != nil {
		updated.Date = *upd.Date
	}
	if upd.Description != nil {
		updated.Description = *upd.Description
	}
	if upd.Tags != nil {
		updated.Tags = *upd.Tags
	}
	if upd.Frequency != nil {
		if *upd.Frequency == "" {
			updated.Recurrence = nil
		} else {
			updated.Recurrence = &core.Recurrence{Frequency: *upd.Frequency}
		}
	}
	if updated.Recurrence != nil {
		updated.Recurrence.NextDate = updated.Recurrence.Frequency.Next(updated.Date)
	}

	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkReferences(ctx, userID, updated.AccountID, updated.CategoryID, updated.Type); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.UpdateTransaction(ctx, old, updated); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated",
		"id", updated.ID, "old_account", old.AccountID, "new_account", updated.AccountID)

	s.publishBudgetAlerts(ctx, updated)
	return updated, nil
}

// DeleteTransaction reverses the transaction's effect on its account
// before removing the record.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	t, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteTransaction(ctx, t); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id, "account_id", t.AccountID)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, f storage.TransactionFilter) ([]core.Transaction, int64, error) {
	return s.storage.ListTransactions(ctx, userID, f)
}

// checkReferences enforces ownership, activity and the category/type
// match before any balance-touching write.
func (s *LedgerService) checkReferences(ctx context.Context, userID, accountID, categoryID uuid.UUID, t core.TransactionType) error {
	account, err := s.storage.GetAccount(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("account: %w", core.ErrNotFound)
		}
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("account is inactive: %w", core.ErrNotFound)
	}

	category, err := s.storage.GetCategory(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("category: %w", core.ErrNotFound)
		}
		return err
	}
	if !category.IsActive {
		return fmt.Errorf("category is inactive: %w", core.ErrNotFound)
	}
	if category.Type != t {
		return core.ErrCategoryMismatch
	}
	return nil
}

// publishBudgetAlerts checks, synchronously within the request, whether
// an expense pushed an active budget past its alert threshold, and
// publishes an alert message when it did. Failures never fail the
// request.
func (s *LedgerService) publishBudgetAlerts(ctx context.Context, t core.Transaction) {
	if t.Type != core.TypeExpense {
		return
	}
	budgets, err := s.storage.ActiveBudgetsCovering(ctx, t.UserID, t.Date.Format("2006-01-02"), t.CategoryID)
	if err != nil {
		slog.ErrorContext(ctx, "Budget alert check failed", "error", err, "transaction_id", t.ID)
		return
	}
	for _, b := range budgets {
		spent, err := s.storage.SpentForCategory(ctx, t.UserID, b.CategoryID,
			b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"))
		if err != nil {
			slog.ErrorContext(ctx, "Budget spend lookup failed", "error", err, "budget_id", b.ID)
			continue
		}
		pct := float64(spent) / float64(b.Amount.Cents) * 100
		if pct < float64(b.AlertThreshold) {
			continue
		}
		if s.amqpClient == nil {
			slog.WarnContext(ctx, "AMQP client not available, skipping budget alert",
				"budget_id", b.ID, "percentage", pct)
			continue
		}
		alert := amqp.NewBudgetAlertMessage(t.UserID, b.ID, b.CategoryID, spent, b.Amount.Cents, pct)
		if err := s.amqpClient.PublishBudgetAlert(ctx, alert); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert", "error", err, "budget_id", b.ID)
		}
	}
}
