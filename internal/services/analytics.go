package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// AnalyticsService computes read-only summaries; it never mutates any
// entity.
type AnalyticsService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewAnalyticsService(st *storage.SQLiteRepository) *AnalyticsService {
	return &AnalyticsService{storage: st, now: time.Now}
}

// Period is a named relative date range computed from the current instant.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodYear        Period = "year"
)

// Range resolves the period to an inclusive [from, to] pair ending now.
func (p Period) Range(now time.Time) (time.Time, time.Time, error) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now, nil
	case PeriodMonth:
		return now.AddDate(0, -1, 0), now, nil
	case PeriodThreeMonths:
		return now.AddDate(0, -3, 0), now, nil
	case PeriodSixMonths:
		return now.AddDate(0, -6, 0), now, nil
	case PeriodYear:
		return now.AddDate(-1, 0, 0), now, nil
	}
	return time.Time{}, time.Time{}, core.Invalid("period", "must be week, month, 3months, 6months or year")
}

// Breakdown groups the owner's transactions by category or account. Pass
// either a named period or an explicit from/to; an explicit range wins.
func (s *AnalyticsService) Breakdown(ctx context.Context, userID uuid.UUID, by string, period Period, from, to time.Time) ([]core.BreakdownRow, error) {
	if from.IsZero() || to.IsZero() {
		p := period
		if p == "" {
			p = PeriodMonth
		}
		var err error
		from, to, err = p.Range(s.now())
		if err != nil {
			return nil, err
		}
	}
	fromStr, toStr := from.Format("2006-01-02"), to.Format("2006-01-02")

	switch by {
	case "", "category":
		return s.storage.BreakdownByCategory(ctx, userID, fromStr, toStr)
	case "account":
		return s.storage.BreakdownByAccount(ctx, userID, fromStr, toStr)
	}
	return nil, core.Invalid("by", "must be category or account")
}

// Trend returns the 12-month rolling income/expense/net series bucketed
// by calendar year+month, zero-filled for empty months.
func (s *AnalyticsService) Trend(ctx context.Context, userID uuid.UUID) ([]core.TrendPoint, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	totals, err := s.storage.MonthlyTotals(ctx, userID, start.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	byMonth := make(map[string]storage.MonthlyTotal, len(totals))
	for _, t := range totals {
		byMonth[t.YearMonth] = t
	}

	points := make([]core.TrendPoint, 0, 12)
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		t := byMonth[key]
		points = append(points, core.TrendPoint{
			Year:    m.Year(),
			Month:   int(m.Month()),
			Income:  core.Money{Cents: t.Income},
			Expense: core.Money{Cents: t.Expense},
			Net:     core.Money{Cents: t.Income - t.Expense},
		})
	}
	return points, nil
}

// Health computes the weighted financial health score from the prior
// calendar month's income and expenses, current active balances, and
// active budgets' spend-vs-budget variance.
func (s *AnalyticsService) Health(ctx context.Context, userID uuid.UUID) (core.HealthScore, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	lastMonthEnd := monthStart.AddDate(0, 0, -1)

	incomeCents, expenseCents, err := s.storage.SumsByType(ctx, userID,
		lastMonthStart.Format("2006-01-02"), lastMonthEnd.Format("2006-01-02"))
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("last month sums: %w", err)
	}
	balanceCents, err := s.storage.TotalActiveBalanceCents(ctx, userID)
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("total balance: %w", err)
	}
	debtCents, err := s.storage.CreditDebtCents(ctx, userID)
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("credit debt: %w", err)
	}
	budgets, err := s.storage.ActiveBudgetsCovering(ctx, userID, now.Format("2006-01-02"), uuid.Nil)
	if err != nil {
		return core.HealthScore{}, fmt.Errorf("active budgets: %w", err)
	}

	income := float64(incomeCents)
	expenses := float64(expenseCents)
	balance := float64(balanceCents)
	debt := float64(debtCents)

	// savingsRate sub-score: a 20% savings rate maps to 100.
	var savingsRate float64
	if income > 0 {
		savingsRate = (income - expenses) / income * 100
	}
	savingsScore := clamp(savingsRate*5, 0, 100)

	// budgetAdherence: 100 minus the mean absolute variance, 100 with no
	// active budgets.
	adherenceScore := 100.0
	if len(budgets) > 0 {
		var totalVariance float64
		for _, b := range budgets {
			spent, err := s.storage.SpentForCategory(ctx, userID, b.CategoryID,
				b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"))
			if err != nil {
				return core.HealthScore{}, fmt.Errorf("budget spend: %w", err)
			}
			totalVariance += math.Abs(float64(spent)-float64(b.Amount.Cents)) / float64(b.Amount.Cents) * 100
		}
		adherenceScore = clamp(100-totalVariance/float64(len(budgets)), 0, 100)
	}

	// emergencyFund: months of last-month expenses covered, out of three.
	fundRatio := 1.0
	if expenses > 0 {
		fundRatio = balance / (expenses * 3)
	}
	fundScore := clamp(fundRatio*100, 0, 100)

	// expenseControl: 100 when income is absent counts as full spend.
	expenseRatio := 100.0
	if income > 0 {
		expenseRatio = expenses / income * 100
	}
	expenseScore := math.Max(0, 100-expenseRatio)

	// debtManagement over credit-account balances.
	var debtRatio float64
	switch {
	case debt == 0:
		debtRatio = 0
	case income > 0:
		debtRatio = debt / income * 100
	default:
		debtRatio = 100
	}
	debtScore := math.Max(0, 100-debtRatio*2)

	overall := 0.25*savingsScore + 0.25*adherenceScore + 0.20*fundScore +
		0.15*expenseScore + 0.15*debtScore

	score := core.HealthScore{
		Overall: int(math.Round(overall)),
		Scores: core.HealthSubScores{
			SavingsRate:     savingsScore,
			BudgetAdherence: adherenceScore,
			EmergencyFund:   fundScore,
			ExpenseControl:  expenseScore,
			DebtManagement:  debtScore,
		},
		LastMonthIncome:   core.Money{Cents: incomeCents},
		LastMonthExpenses: core.Money{Cents: expenseCents},
		TotalBalance:      core.Money{Cents: balanceCents},
		Debt:              core.Money{Cents: debtCents},
	}
	score.Insights = healthInsights(savingsRate, fundRatio, adherenceScore, debtRatio)
	return score, nil
}

func healthInsights(savingsRate, fundRatio, adherenceScore, debtRatio float64) []core.HealthInsight {
	var insights []core.HealthInsight
	if savingsRate < 10 {
		insights = append(insights, core.HealthInsight{
			Level:   "warning",
			Message: "Your savings rate is below 10%. Try to set aside more of your income.",
		})
	} else if savingsRate >= 20 {
		insights = append(insights, core.HealthInsight{
			Level:   "success",
			Message: "Great savings rate! You are putting aside 20% or more of your income.",
		})
	}
	if fundRatio < 1 {
		insights = append(insights, core.HealthInsight{
			Level:   "alert",
			Message: "Your emergency fund covers less than three months of expenses.",
		})
	}
	if adherenceScore < 70 {
		insights = append(insights, core.HealthInsight{
			Level:   "info",
			Message: "Your spending is drifting from your budgets. Review your category limits.",
		})
	}
	if debtRatio > 30 {
		insights = append(insights, core.HealthInsight{
			Level:   "warning",
			Message: "Your debt-to-income ratio is above 30%. Consider paying down credit balances.",
		})
	}
	if len(insights) == 0 {
		insights = append(insights, core.HealthInsight{
			Level:   "success",
			Message: "Your finances look healthy. Keep it up!",
		})
	}
	return insights
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
