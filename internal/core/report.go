package core

import "github.com/google/uuid"

// BreakdownRow aggregates a user's transactions for one category or
// account and one transaction type.
type BreakdownRow struct {
	ID      uuid.UUID
	Name    string
	Type    TransactionType
	Total   Money
	Count   int
	Average Money
}

// TrendPoint is one calendar month of the rolling income/expense/net trend.
type TrendPoint struct {
	Year    int
	Month   int // 1-12
	Income  Money
	Expense Money
	Net     Money
}

// BalancePoint is one day of an account's balance history.
type BalancePoint struct {
	Date    string // YYYY-MM-DD
	Balance Money
}

// HealthSubScores are the five weighted components of the financial
// health score, each 0-100.
type HealthSubScores struct {
	SavingsRate     float64
	BudgetAdherence float64
	EmergencyFund   float64
	ExpenseControl  float64
	DebtManagement  float64
}

// HealthInsight is a threshold-rule observation attached to the score.
type HealthInsight struct {
	Level   string // success, info, warning, alert
	Message string
}

// HealthScore is the weighted heuristic over the prior calendar month's
// income and expenses, current active balances, and budget variance.
type HealthScore struct {
	Overall  int
	Scores   HealthSubScores
	Insights []HealthInsight

	// Inputs echoed for the client.
	LastMonthIncome   Money
	LastMonthExpenses Money
	TotalBalance      Money
	Debt              Money
}
