package http

import (
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// View types shape the JSON surface: amounts as 2-decimal numbers, dates
// as YYYY-MM-DD strings, internals (user IDs, password hashes) omitted.

type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewUser(u core.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

type accountView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Balance        float64   `json:"balance"`
	InitialBalance float64   `json:"initialBalance"`
	CreditLimit    float64   `json:"creditLimit,omitempty"`
	Available      float64   `json:"available"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func viewAccount(a core.Account) accountView {
	return accountView{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance.Float64(),
		InitialBalance: a.InitialBalance.Float64(),
		CreditLimit:    a.CreditLimit.Float64(),
		Available:      a.Available().Float64(),
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func viewAccounts(accounts []core.Account) []accountView {
	out := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, viewAccount(a))
	}
	return out
}

type categoryView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	IsDefault bool       `json:"isDefault"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

func viewCategory(c core.Category) categoryView {
	return categoryView{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		ParentID:  c.ParentID,
		IsDefault: c.IsDefault,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

func viewCategories(categories []core.Category) []categoryView {
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, viewCategory(c))
	}
	return out
}

type recurrenceView struct {
	Frequency string `json:"frequency"`
	NextDate  string `json:"nextDate"`
}

type transactionView struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Amount      float64         `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags,omitempty"`
	Recurrence  *recurrenceView `json:"recurrence,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func viewTransaction(t core.Transaction) transactionView {
	v := transactionView{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount.Float64(),
		Type:        string(t.Type),
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Recurrence != nil {
		v.Recurrence = &recurrenceView{
			Frequency: string(t.Recurrence.Frequency),
			NextDate:  t.Recurrence.NextDate.Format("2006-01-02"),
		}
	}
	return v
}

type transactionPage struct {
	Transactions []transactionView `json:"transactions"`
	Total        int64             `json:"total"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
}

type budgetView struct {
	ID             uuid.UUID `json:"id"`
	CategoryID     uuid.UUID `json:"categoryId"`
	Amount         float64   `json:"amount"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	AlertThreshold int       `json:"alertThreshold"`
	IsActive       bool      `json:"isActive"`
	Spent          float64   `json:"spent"`
	Remaining      float64   `json:"remaining"`
	Percentage     float64   `json:"percentage"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func viewBudgetStatus(b core.BudgetStatus) budgetView {
	return budgetView{
		ID:             b.ID,
		CategoryID:     b.CategoryID,
		Amount:         b.Amount.Float64(),
		StartDate:      b.StartDate.Format("2006-01-02"),
		EndDate:        b.EndDate.Format("2006-01-02"),
		AlertThreshold: b.AlertThreshold,
		IsActive:       b.IsActive,
		Spent:          b.Spent.Float64(),
		Remaining:      b.Remaining.Float64(),
		Percentage:     b.Percentage,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
}

type breakdownRowView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Total   float64   `json:"total"`
	Count   int       `json:"count"`
	Average float64   `json:"average"`
}

func viewBreakdown(rows []core.BreakdownRow) []breakdownRowView {
	out := make([]breakdownRowView, 0, len(rows))
	for _, row := range rows {
		out = append(out, breakdownRowView{
			ID:      row.ID,
			Name:    row.Name,
			Type:    string(row.Type),
			Total:   row.Total.Float64(),
			Count:   row.Count,
			Average: row.Average.Float64(),
		})
	}
	return out
}

type trendPointView struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

func viewTrend(points []core.TrendPoint) []trendPointView {
	out := make([]trendPointView, 0, len(points))
	for _, p := range points {
		out = append(out, trendPointView{
			Year:    p.Year,
			Month:   p.Month,
			Income:  p.Income.Float64(),
			Expense: p.Expense.Float64(),
			Net:     p.Net.Float64(),
		})
	}
	return out
}

type balancePointView struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

func viewHistory(points []core.BalancePoint) []balancePointView {
	out := make([]balancePointView, 0, len(points))
	for _, p := range points {
		out = append(out, balancePointView{Date: p.Date, Balance: p.Balance.Float64()})
	}
	return out
}

type healthInsightView struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type healthView struct {
	Overall int `json:"overall"`
	Scores  struct {
		SavingsRate     float64 `json:"savingsRate"`
		BudgetAdherence float64 `json:"budgetAdherence"`
		EmergencyFund   float64 `json:"emergencyFund"`
		ExpenseControl  float64 `json:"expenseControl"`
		DebtManagement  float64 `json:"debtManagement"`
	} `json:"scores"`
	Insights          []healthInsightView `json:"insights"`
	LastMonthIncome   float64             `json:"lastMonthIncome"`
	LastMonthExpenses float64             `json:"lastMonthExpenses"`
	TotalBalance      float64             `json:"totalBalance"`
	Debt              float64             `json:"debt"`
}

func viewHealth(h core.HealthScore) healthView {
	v := healthView{
		Overall:           h.Overall,
		LastMonthIncome:   h.LastMonthIncome.Float64(),
		LastMonthExpenses: h.LastMonthExpenses.Float64(),
		TotalBalance:      h.TotalBalance.Float64(),
		Debt:              h.Debt.Float64(),
	}
	v.Scores.SavingsRate = h.Scores.SavingsRate
	v.Scores.BudgetAdherence = h.Scores.BudgetAdherence
	v.Scores.EmergencyFund = h.Scores.EmergencyFund
	v.Scores.ExpenseControl = h.Scores.ExpenseControl
	v.Scores.DebtManagement = h.Scores.DebtManagement
	for _, in := range h.Insights {
		v.Insights = append(v.Insights, healthInsightView{Level: in.Level, Message: in.Message})
	}
	return v
}
