package services

import (
	"context"
	"fmt"
	"time"

	"finlite/internal/core"
)

// BudgetCalculator derives the daily spending allowance and analytics views
// from the current store contents. It holds no state between calls; every
// figure is recomputed from the store on demand.
type BudgetCalculator struct {
	store AnalyticsStore
}

func NewBudgetCalculator(store AnalyticsStore) *BudgetCalculator {
	return &BudgetCalculator{store: store}
}

// CalculateDailyBudget computes how much may be spent today: income minus
// expenses minus today's savings pressure, spread over daysInMonth.
//
// Each goal with a parseable due date contributes (target-saved)/daysLeft,
// where daysLeft is clamped to at least 1 so an overdue goal is treated as
// due tomorrow rather than dividing by zero. Goals already met contribute
// nothing; goals with a missing or malformed due date are skipped with a
// warning. The result may be negative and is returned as-is so callers can
// surface overspending.
func (c *BudgetCalculator) CalculateDailyBudget(ctx context.Context, now time.Time, daysInMonth int) (core.DailyBudgetReport, error) {
	if daysInMonth <= 0 {
		return core.DailyBudgetReport{}, fmt.Errorf("%w: days in month must be positive, got %d", core.ErrInvalidMonth, daysInMonth)
	}

	income, err := c.store.SumIncome(ctx)
	if err != nil {
		return core.DailyBudgetReport{}, fmt.Errorf("sum income: %w", err)
	}
	expenses, err := c.store.SumExpenses(ctx)
	if err != nil {
		return core.DailyBudgetReport{}, fmt.Errorf("sum expenses: %w", err)
	}
	goals, err := c.store.ListSavingsGoals(ctx)
	if err != nil {
		return core.DailyBudgetReport{}, fmt.Errorf("list savings goals: %w", err)
	}

	report := core.DailyBudgetReport{
		TotalIncome:   income.Units(),
		TotalExpenses: expenses.Units(),
		DaysInMonth:   daysInMonth,
	}

	today := core.DateOf(now)
	for _, g := range goals {
		if g.DueDate == "" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("goal %q has no due date and was skipped", g.Name))
			continue
		}
		due, err := core.ParseDate(g.DueDate)
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("goal %q has an unreadable due date %q and was skipped", g.Name, g.DueDate))
			continue
		}

		daysLeft := core.DaysUntil(due, today)
		if daysLeft < 1 {
			daysLeft = 1
		}
		perGoal := (g.Target.Units() - g.Saved.Units()) / float64(daysLeft)
		if perGoal < 0 {
			perGoal = 0
		}
		report.SavingsNeededToday += perGoal
	}

	report.DailyBudget = (report.TotalIncome - report.TotalExpenses - report.SavingsNeededToday) / float64(daysInMonth)
	return report, nil
}

// Analytics aggregates totals, the expense breakdown by category, recurring
// totals by type, and per-goal progress into one read-only view.
func (c *BudgetCalculator) Analytics(ctx context.Context) (core.AnalyticsReport, error) {
	income, err := c.store.SumIncome(ctx)
	if err != nil {
		return core.AnalyticsReport{}, fmt.Errorf("sum income: %w", err)
	}
	expenses, err := c.store.SumExpenses(ctx)
	if err != nil {
		return core.AnalyticsReport{}, fmt.Errorf("sum expenses: %w", err)
	}
	byCategory, err := c.store.CategorySums(ctx)
	if err != nil {
		return core.AnalyticsReport{}, fmt.Errorf("category sums: %w", err)
	}
	recurringIncome, err := c.store.SumRecurring(ctx, core.Income)
	if err != nil {
		return core.AnalyticsReport{}, fmt.Errorf("sum recurring income: %w", err)
	}
	recurringExpenses, err := c.store.SumRecurring(ctx, core.Expense)
	if err != nil {
		return core.AnalyticsReport{}, fmt.Errorf("sum recurring expenses: %w", err)
	}
	goals, err := c.store.ListSavingsGoals(ctx)
	if err != nil {
		return core.AnalyticsReport{}, fmt.Errorf("list savings goals: %w", err)
	}

	report := core.AnalyticsReport{
		TotalIncome:       income.Units(),
		TotalExpenses:     expenses.Units(),
		ByCategory:        byCategory,
		RecurringIncome:   recurringIncome.Units(),
		RecurringExpenses: recurringExpenses.Units(),
	}

	for _, g := range goals {
		progress := core.GoalProgress{
			ID:      g.ID,
			Name:    g.Name,
			Target:  g.Target.Units(),
			Saved:   g.Saved.Units(),
			DueDate: g.DueDate,
		}
		if g.Target.Cents > 0 {
			progress.Percent = g.Saved.Units() / g.Target.Units() * 100.0
		}
		report.Goals = append(report.Goals, progress)
	}

	report.RemainingBudget = report.TotalIncome - (report.TotalExpenses + report.RecurringExpenses)
	report.Overspending = report.RemainingBudget < 0
	return report, nil
}
