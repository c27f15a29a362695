package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

// The worked example: last-month income 2000, expenses 1600, total
// balance 4800, no budgets, no credit debt. Sub-scores 100/100/100/20/100
// weighted 0.25/0.25/0.20/0.15/0.15 give an overall of 88.
func TestHealthScoreWorkedExample(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)
	ctx := context.Background()

	// 4400 initial + 2000 income - 1600 expenses = 4800 balance.
	account := createAccount(t, repo, u.ID, "Checking", 4400)
	incomeCat := categoryOfType(t, repo, u.ID, core.TypeIncome)
	expenseCat := categoryOfType(t, repo, u.ID, core.TypeExpense)

	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	ledger := NewLedgerService(repo, nil)
	if _, err := ledger.CreateTransaction(ctx, u.ID, TransactionInput{
		AccountID: account.ID, CategoryID: incomeCat.ID, Amount: 2000,
		Type: core.TypeIncome, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "salary",
	}); err != nil {
		t.Fatalf("create income: %v", err)
	}
	if _, err := ledger.CreateTransaction(ctx, u.ID, TransactionInput{
		AccountID: account.ID, CategoryID: expenseCat.ID, Amount: 1600,
		Type: core.TypeExpense, Date: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		Description: "living costs",
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	svc := &AnalyticsService{storage: repo, now: func() time.Time { return now }}
	score, err := svc.Health(ctx, u.ID)
	if err != nil {
		t.Fatalf("health: %v", err)
	}

	if score.Overall != 88 {
		t.Errorf("overall = %d, want 88", score.Overall)
	}
	sub := score.Scores
	if sub.SavingsRate != 100 || sub.BudgetAdherence != 100 || sub.EmergencyFund != 100 ||
		sub.ExpenseControl != 20 || sub.DebtManagement != 100 {
		t.Errorf("sub-scores = %+v", sub)
	}
	if score.LastMonthIncome.Cents != 200000 || score.LastMonthExpenses.Cents != 160000 {
		t.Errorf("inputs = income %d, expenses %d", score.LastMonthIncome.Cents, score.LastMonthExpenses.Cents)
	}
	if score.TotalBalance.Cents != 480000 {
		t.Errorf("total balance = %d, want 480000", score.TotalBalance.Cents)
	}
	if len(score.Insights) == 0 {
		t.Error("expected at least one insight")
	}
}

func TestHealthScoreNoActivity(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)

	svc := &AnalyticsService{storage: repo, now: time.Now}
	score, err := svc.Health(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	// income 0: savings 0, adherence 100, fund 100, expense control 0,
	// debt 100 -> 0.25*0 + 0.25*100 + 0.20*100 + 0.15*0 + 0.15*100 = 60.
	if score.Overall != 60 {
		t.Errorf("overall = %d, want 60", score.Overall)
	}
}

func TestTrendZeroFillsTwelveMonths(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)
	ctx := context.Background()

	account := createAccount(t, repo, u.ID, "Checking", 0)
	incomeCat := categoryOfType(t, repo, u.ID, core.TypeIncome)

	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	ledger := NewLedgerService(repo, nil)
	if _, err := ledger.CreateTransaction(ctx, u.ID, TransactionInput{
		AccountID: account.ID, CategoryID: incomeCat.ID, Amount: 500,
		Type: core.TypeIncome, Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		Description: "one-off",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := &AnalyticsService{storage: repo, now: func() time.Time { return now }}
	points, err := svc.Trend(ctx, u.ID)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(points) != 12 {
		t.Fatalf("points = %d, want 12", len(points))
	}
	if points[0].Year != 2025 || points[0].Month != 9 {
		t.Errorf("first bucket = %d-%02d, want 2025-09", points[0].Year, points[0].Month)
	}
	if points[11].Year != 2026 || points[11].Month != 8 {
		t.Errorf("last bucket = %d-%02d, want 2026-08", points[11].Year, points[11].Month)
	}
	var nonZero int
	for _, p := range points {
		if p.Income.Cents != 0 || p.Expense.Cents != 0 {
			nonZero++
			if p.Year != 2026 || p.Month != 6 || p.Income.Cents != 50000 || p.Net.Cents != 50000 {
				t.Errorf("unexpected non-zero bucket %+v", p)
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("non-zero buckets = %d, want 1", nonZero)
	}
}

func TestBreakdownPeriodValidation(t *testing.T) {
	repo := newTestStorage(t)
	u := registerUser(t, repo)
	svc := NewAnalyticsService(repo)

	if _, err := svc.Breakdown(context.Background(), u.ID, "category", "quarter", time.Time{}, time.Time{}); err == nil {
		t.Error("unknown period accepted")
	}
	if _, err := svc.Breakdown(context.Background(), u.ID, "vendor", PeriodMonth, time.Time{}, time.Time{}); err == nil {
		t.Error("unknown grouping accepted")
	}
}
