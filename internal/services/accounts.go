package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// AccountService manages accounts. Deleting an account with linked
// transactions deactivates it instead, preserving the record and its
// transactions.
type AccountService struct {
	storage *storage.SQLiteRepository
}

func NewAccountService(st *storage.SQLiteRepository) *AccountService {
	return &AccountService{storage: st}
}

// AccountInput carries the fields a caller may set at creation. Balance
// may be negative (credit accounts carry owed money as a negative
// balance).
type AccountInput struct {
	Name        string
	Type        core.AccountType
	Balance     float64
	CreditLimit float64
}

// AccountUpdate is the explicit allow-list of updatable fields. Balance
// is deliberately absent: it only moves through transactions.
type AccountUpdate struct {
	Name        *string
	Type        *core.AccountType
	CreditLimit *float64
	IsActive    *bool
}

// Create persists the account with the supplied balance snapshotted as
// the initial balance; the snapshot is never recomputed afterwards.
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, in AccountInput) (core.Account, error) {
	now := time.Now()
	a := core.Account{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           in.Name,
		Type:           in.Type,
		Balance:        toCents(in.Balance),
		InitialBalance: toCents(in.Balance),
		CreditLimit:    toCents(in.CreditLimit),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.storage.CreateAccount(ctx, a); err != nil {
		return core.Account{}, err
	}
	slog.InfoContext(ctx, "Account created", "id", a.ID, "type", a.Type, "balance_cents", a.Balance.Cents)
	return a, nil
}

func (s *AccountService) Get(ctx context.Context, userID, id uuid.UUID) (core.Account, error) {
	return s.storage.GetAccount(ctx, userID, id)
}

func (s *AccountService) List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]core.Account, error) {
	return s.storage.ListAccounts(ctx, userID, includeInactive)
}

func (s *AccountService) Update(ctx context.Context, userID, id uuid.UUID, upd AccountUpdate) (core.Account, error) {
	a, err := s.storage.GetAccount(ctx, userID, id)
	if err != nil {
		return core.Account{}, err
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Type != nil {
		a.Type = *upd.Type
	}
	if upd.CreditLimit != nil {
		a.CreditLimit = toCents(*upd.CreditLimit)
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.storage.UpdateAccount(ctx, a); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

// Delete removes the account when no transactions reference it and
// deactivates it otherwise.
func (s *AccountService) Delete(ctx context.Context, userID, id uuid.UUID) (deactivated bool, err error) {
	if _, err := s.storage.GetAccount(ctx, userID, id); err != nil {
		return false, err
	}
	n, err := s.storage.CountAccountTransactions(ctx, userID, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		if err := s.storage.DeactivateAccount(ctx, userID, id); err != nil {
			return false, err
		}
		slog.InfoContext(ctx, "Account deactivated", "id", id, "linked_transactions", n)
		return true, nil
	}
	if err := s.storage.DeleteAccount(ctx, userID, id); err != nil {
		return false, err
	}
	slog.InfoContext(ctx, "Account deleted", "id", id)
	return false, nil
}

// History reconstructs the account's end-of-day balance for each of the
// last N days by walking backwards from the current balance.
func (s *AccountService) History(ctx context.Context, userID, id uuid.UUID, days int) ([]core.BalancePoint, error) {
	if days < 1 || days > 365 {
		return nil, core.Invalid("days", "must be between 1 and 365")
	}
	a, err := s.storage.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))
	nets, err := s.storage.DailyNetForAccount(ctx, userID, id, from.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("daily nets: %w", err)
	}
	netByDate := make(map[string]int64, len(nets))
	for _, n := range nets {
		netByDate[n.Date] = n.Net
	}

	points := make([]core.BalancePoint, days)
	balance := a.Balance.Cents
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -(days - 1 - i))
		key := day.Format("2006-01-02")
		points[i] = core.BalancePoint{Date: key, Balance: core.Money{Cents: balance}}
		// The balance at the end of the previous day excludes this day's
		// movements.
		balance -= netByDate[key]
	}
	return points, nil
}

// toCents rounds a signed decimal amount to cents.
func toCents(v float64) core.Money {
	return core.Money{Cents: decimal.NewFromFloat(v).Round(2).Mul(decimal.NewFromInt(100)).IntPart()}
}
