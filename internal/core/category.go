package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category classifies transactions. Name is unique per owner among active
// categories. Default categories are seeded at registration and protected:
// they cannot be deleted, renamed, retyped, or deactivated.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      TransactionType
	ParentID  *uuid.UUID
	IsDefault bool
	IsActive  bool
	CreatedAt time.Time
}

func (c Category) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		verr.Add("name", "cannot be empty")
	}
	if len(c.Name) > 100 {
		verr.Add("name", "too long (max 100 characters)")
	}
	if !c.Type.Valid() {
		verr.Add("type", "must be income or expense")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		verr.Add("parentCategory", "cannot reference itself")
	}
	if c.IsDefault && !c.IsActive {
		verr.Add("isActive", "a default category cannot be inactive")
	}
	return verr.OrNil()
}

// DefaultCategory describes one entry of the fixed list seeded for every
// new user at registration.
type DefaultCategory struct {
	Name string
	Type TransactionType
}

// DefaultCategories is the fixed seed list applied by the registration
// workflow.
var DefaultCategories = []DefaultCategory{
	{Name: "Salary", Type: TypeIncome},
	{Name: "Freelance", Type: TypeIncome},
	{Name: "Investments", Type: TypeIncome},
	{Name: "Other Income", Type: TypeIncome},
	{Name: "Food & Dining", Type: TypeExpense},
	{Name: "Transportation", Type: TypeExpense},
	{Name: "Housing", Type: TypeExpense},
	{Name: "Utilities", Type: TypeExpense},
	{Name: "Entertainment", Type: TypeExpense},
	{Name: "Healthcare", Type: TypeExpense},
	{Name: "Shopping", Type: TypeExpense},
	{Name: "Other Expenses", Type: TypeExpense},
}
