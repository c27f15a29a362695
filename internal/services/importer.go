package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ImportRow is one CSV-derived row submitted for bulk import. The sign of
// Amount selects the transaction type; the stored amount is its absolute
// value.
type ImportRow struct {
	Amount      float64
	Description string
	Date        string // YYYY-MM-DD
	CategoryID  string // optional; falls back to the first active category of the inferred type
}

// RowError reports one failed row with its 1-based index.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk import. Partial success is the normal
// outcome; the batch never fails atomically because of row errors.
type ImportResult struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"errors"`
	Errors   []RowError `json:"errorDetails,omitempty"`
}

// ImporterService normalizes raw rows and inserts the valid ones in one
// batch, applying balance adjustments aggregated per account.
type ImporterService struct {
	storage *storage.SQLiteRepository
}

func NewImporterService(st *storage.SQLiteRepository) *ImporterService {
	return &ImporterService{storage: st}
}

// Import assigns all rows to the owner's first active account, normalizes
// each row independently, and inserts the valid ones together.
func (s *ImporterService) Import(ctx context.Context, userID uuid.UUID, rows []ImportRow) (ImportResult, error) {
	account, err := s.storage.FirstActiveAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNoAccountAvailable) {
			return ImportResult{}, core.Invalid("account", "no active account to import into")
		}
		return ImportResult{}, fmt.Errorf("resolve import account: %w", err)
	}

	// Category fallbacks are resolved once per type, not per row.
	fallbacks := map[core.TransactionType]*core.Category{}

	var (
		result ImportResult
		batch  []core.Transaction
	)
	now := time.Now()
	for i, row := range rows {
		t, reason := s.normalizeRow(ctx, userID, account.ID, row, fallbacks, now)
		if reason != "" {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: i + 1, Reason: reason})
			continue
		}
		batch = append(batch, t)
	}

	if err := s.storage.BulkInsertTransactions(ctx, batch); err != nil {
		return ImportResult{}, fmt.Errorf("bulk insert: %w", err)
	}
	result.Imported = len(batch)

	slog.InfoContext(ctx, "Bulk import completed",
		"account_id", account.ID, "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func (s *ImporterService) normalizeRow(ctx context.Context, userID, accountID uuid.UUID, row ImportRow, fallbacks map[core.TransactionType]*core.Category, now time.Time) (core.Transaction, string) {
	if row.Amount == 0 {
		return core.Transaction{}, "missing or invalid amount"
	}
	typ := core.TypeIncome
	amount := row.Amount
	if amount < 0 {
		typ = core.TypeExpense
		amount = -amount
	}
	money, err := core.ParseAmount(amount)
	if err != nil {
		return core.Transaction{}, "missing or invalid amount"
	}

	if strings.TrimSpace(row.Description) == "" {
		return core.Transaction{}, "missing description"
	}

	date, err := time.Parse("2006-01-02", row.Date)
	if err != nil {
		return core.Transaction{}, "missing or invalid date"
	}

	categoryID, reason := s.resolveCategory(ctx, userID, row.CategoryID, typ, fallbacks)
	if reason != "" {
		return core.Transaction{}, reason
	}

	return core.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      money,
		Type:        typ,
		Date:        date,
		Description: strings.TrimSpace(row.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, ""
}

func (s *ImporterService) resolveCategory(ctx context.Context, userID uuid.UUID, raw string, typ core.TransactionType, fallbacks map[core.TransactionType]*core.Category) (uuid.UUID, string) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, "invalid category id"
		}
		c, err := s.storage.GetCategory(ctx, userID, id)
		if err != nil || !c.IsActive {
			return uuid.Nil, "category not found"
		}
		if c.Type != typ {
			return uuid.Nil, "category type does not match amount sign"
		}
		return c.ID, ""
	}

	if cached, ok := fallbacks[typ]; ok {
		if cached == nil {
			return uuid.Nil, "no active category available for " + string(typ)
		}
		return cached.ID, ""
	}
	c, err := s.storage.FirstActiveCategoryOfType(ctx, userID, typ)
	if err != nil {
		fallbacks[typ] = nil
		return uuid.Nil, "no active category available for " + string(typ)
	}
	fallbacks[typ] = &c
	return c.ID, ""
}
