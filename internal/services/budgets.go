package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// BudgetService manages budgets and their live spend status. No two
// active budgets for the same owner and category may overlap.
type BudgetService struct {
	storage *storage.SQLiteRepository
}

func NewBudgetService(st *storage.SQLiteRepository) *BudgetService {
	return &BudgetService{storage: st}
}

type BudgetInput struct {
	CategoryID     uuid.UUID
	Amount         float64
	StartDate      time.Time
	EndDate        time.Time
	AlertThreshold int // 0 = default 80
}

// BudgetUpdate is the explicit allow-list of updatable fields.
type BudgetUpdate struct {
	Amount         *float64
	StartDate      *time.Time
	EndDate        *time.Time
	AlertThreshold *int
	IsActive       *bool
}

func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, in BudgetInput) (core.Budget, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Budget{}, core.Invalid("amount", "must be greater than zero")
	}
	threshold := in.AlertThreshold
	if threshold == 0 {
		threshold = 80
	}
	b := core.Budget{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     in.CategoryID,
		Amount:         amount,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		AlertThreshold: threshold,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.checkCategory(ctx, userID, b.CategoryID); err != nil {
		return core.Budget{}, err
	}
	if err := s.checkOverlap(ctx, b, uuid.Nil); err != nil {
		return core.Budget{}, err
	}
	if err := s.storage.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	slog.InfoContext(ctx, "Budget created", "id", b.ID, "category_id", b.CategoryID, "amount_cents", b.Amount.Cents)
	return b, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id uuid.UUID) (core.BudgetStatus, error) {
	b, err := s.storage.GetBudget(ctx, userID, id)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return s.status(ctx, b)
}

// List returns the owner's budgets with live spent/remaining/percentage
// figures.
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]core.BudgetStatus, error) {
	budgets, err := s.storage.ListBudgets(ctx, userID, includeInactive)
	if err != nil {
		return nil, err
	}
	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := s.status(ctx, b)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, id uuid.UUID, upd BudgetUpdate) (core.Budget, error) {
	b, err := s.storage.GetBudget(ctx, userID, id)
	if err != nil {
		return core.Budget{}, err
	}
	if upd.Amount != nil {
		amount, err := core.ParseAmount(*upd.Amount)
		if err != nil {
			return core.Budget{}, core.Invalid("amount", "must be greater than zero")
		}
		b.Amount = amount
	}
	if upd.StartDate != nil {
		b.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		b.EndDate = *upd.EndDate
	}
	if upd.AlertThreshold != nil {
		b.AlertThreshold = *upd.AlertThreshold
	}
	if upd.IsActive != nil {
		b.IsActive = *upd.IsActive
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if b.IsActive {
		if err := s.checkOverlap(ctx, b, b.ID); err != nil {
			return core.Budget{}, err
		}
	}
	if err := s.storage.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.storage.DeleteBudget(ctx, userID, id)
}

func (s *BudgetService) checkCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	c, err := s.storage.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}
	if !c.IsActive {
		return fmt.Errorf("category is inactive: %w", core.ErrNotFound)
	}
	if c.Type != core.TypeExpense {
		return fmt.Errorf("budgets require an expense category: %w", core.ErrConflict)
	}
	return nil
}

func (s *BudgetService) checkOverlap(ctx context.Context, b core.Budget, excludeID uuid.UUID) error {
	overlap, err := s.storage.HasOverlappingBudget(ctx, b.UserID, b.CategoryID,
		b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"), excludeID)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("an active budget for this category already covers part of this period: %w", core.ErrConflict)
	}
	return nil
}

func (s *BudgetService) status(ctx context.Context, b core.Budget) (core.BudgetStatus, error) {
	spent, err := s.storage.SpentForCategory(ctx, b.UserID, b.CategoryID,
		b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"))
	if err != nil {
		return core.BudgetStatus{}, err
	}
	pct := float64(spent) / float64(b.Amount.Cents) * 100
	status := "ok"
	switch {
	case spent > b.Amount.Cents:
		status = "exceeded"
	case pct >= float64(b.AlertThreshold):
		status = "warning"
	}
	return core.BudgetStatus{
		Budget:     b,
		Spent:      core.Money{Cents: spent},
		Remaining:  core.Money{Cents: b.Amount.Cents - spent},
		Percentage: math.Round(pct*100) / 100,
		Status:     status,
	}, nil
}
