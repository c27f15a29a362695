package core

import (
	"time"

	"github.com/google/uuid"
)

// Budget caps spending on one expense category over a date window. No two
// active budgets for the same owner and category may have overlapping
// windows.
type Budget struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     uuid.UUID
	Amount         Money
	StartDate      time.Time
	EndDate        time.Time
	AlertThreshold int // percent, default 80
	IsActive       bool
	CreatedAt      time.Time
}

func (b Budget) Validate() error {
	verr := &ValidationError{}
	if b.Amount.Cents <= 0 {
		verr.Add("amount", "must be greater than zero")
	}
	if b.CategoryID == uuid.Nil {
		verr.Add("categoryId", "cannot be empty")
	}
	if b.StartDate.IsZero() {
		verr.Add("startDate", "cannot be empty")
	}
	if b.EndDate.IsZero() {
		verr.Add("endDate", "cannot be empty")
	} else if !b.EndDate.After(b.StartDate) {
		verr.Add("endDate", "must be after start date")
	}
	if b.AlertThreshold < 1 || b.AlertThreshold > 100 {
		verr.Add("alertThreshold", "must be between 1 and 100")
	}
	return verr.OrNil()
}

// Covers reports whether the budget window includes the given day.
func (b Budget) Covers(day time.Time) bool {
	return !day.Before(b.StartDate) && !day.After(b.EndDate)
}

// Overlaps reports whether two date windows intersect.
func (b Budget) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !start.After(b.EndDate)
}

// BudgetStatus is a budget with its live spend figures for list responses.
type BudgetStatus struct {
	Budget
	Spent      Money
	Remaining  Money
	Percentage float64
	Status     string // ok, warning, exceeded
}
