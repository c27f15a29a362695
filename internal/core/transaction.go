package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next returns the occurrence following from.
func (f Frequency) Next(from time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// Recurrence is the optional repeat descriptor on a transaction. NextDate
// is computed from the transaction date at write time.
type Recurrence struct {
	Frequency Frequency
	NextDate  time.Time
}

// Transaction is a single ledger movement. Amount is always stored
// positive; the direction comes from Type.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Amount      Money
	Type        TransactionType
	Date        time.Time
	Description string
	Tags        []string
	Recurrence  *Recurrence
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SignedCents is the transaction's effect on its account balance:
// +amount for income, -amount for expense.
func (t Transaction) SignedCents() int64 {
	if t.Type == TypeExpense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (t Transaction) Validate() error {
	verr := &ValidationError{}
	if t.Amount.Cents <= 0 {
		verr.Add("amount", "must be greater than zero")
	}
	if !t.Type.Valid() {
		verr.Add("type", "must be income or expense")
	}
	if t.Date.IsZero() {
		verr.Add("date", "cannot be empty")
	}
	if strings.TrimSpace(t.Description) == "" {
		verr.Add("description", "cannot be empty")
	}
	if len(t.Description) > 200 {
		verr.Add("description", "too long (max 200 characters)")
	}
	if t.AccountID == uuid.Nil {
		verr.Add("accountId", "cannot be empty")
	}
	if t.CategoryID == uuid.Nil {
		verr.Add("categoryId", "cannot be empty")
	}
	if t.Recurrence != nil && !t.Recurrence.Frequency.Valid() {
		verr.Add("recurrence.frequency", "must be daily, weekly, monthly or yearly")
	}
	return verr.OrNil()
}
