package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment, AccountCash:
		return true
	}
	return false
}

// Account is a ledger account owned by exactly one user.
//
// Invariant: Balance == InitialBalance + sum of the signed effects of all
// transactions currently linked to the account. InitialBalance is a
// snapshot taken once at creation and never recomputed.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           AccountType
	Balance        Money
	InitialBalance Money
	CreditLimit    Money
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Account) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(a.Name) == "" {
		verr.Add("name", "cannot be empty")
	}
	if len(a.Name) > 100 {
		verr.Add("name", "too long (max 100 characters)")
	}
	if !a.Type.Valid() {
		verr.Addf("type", "must be one of checking, savings, credit, investment, cash")
	}
	if a.CreditLimit.Cents != 0 && a.Type != AccountCredit {
		verr.Add("creditLimit", "only credit accounts may set a credit limit")
	}
	if a.CreditLimit.Cents < 0 {
		verr.Add("creditLimit", "cannot be negative")
	}
	return verr.OrNil()
}

// Available returns the spendable amount on a credit account, assuming the
// stored balance is negative while money is owed. Nothing at write time
// enforces that sign convention, so this is best-effort presentation.
func (a Account) Available() Money {
	if a.Type != AccountCredit {
		return a.Balance
	}
	return a.CreditLimit.Add(a.Balance)
}
