package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"finlite/internal/core"
)

type fakeBudgetStore struct {
	income     core.Money
	expenses   core.Money
	goals      []core.SavingsGoal
	byCategory []core.CategoryAmount
	recurring  map[core.EntryType]core.Money

	sumIncomeErr error
}

func (f *fakeBudgetStore) SumIncome(ctx context.Context) (core.Money, error) {
	if f.sumIncomeErr != nil {
		return core.Money{}, f.sumIncomeErr
	}
	return f.income, nil
}

func (f *fakeBudgetStore) SumExpenses(ctx context.Context) (core.Money, error) {
	return f.expenses, nil
}

func (f *fakeBudgetStore) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	return f.goals, nil
}

func (f *fakeBudgetStore) CategorySums(ctx context.Context) ([]core.CategoryAmount, error) {
	return f.byCategory, nil
}

func (f *fakeBudgetStore) SumRecurring(ctx context.Context, t core.EntryType) (core.Money, error) {
	return f.recurring[t], nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateDailyBudget(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		store       *fakeBudgetStore
		daysInMonth int

		wantSavings  float64
		wantBudget   float64
		wantWarnings int
	}{
		{
			name: "single goal due in ten days",
			store: &fakeBudgetStore{
				income:   core.Money{Cents: 300000},
				expenses: core.Money{Cents: 120000},
				goals: []core.SavingsGoal{
					{Name: "vacation", Target: core.Money{Cents: 60000}, Saved: core.Money{Cents: 10000}, DueDate: "2024-06-11"},
				},
			},
			daysInMonth: 30,
			wantSavings: 50,
			wantBudget:  (3000 - 1200 - 50) / 30.0,
		},
		{
			name: "overdue goal clamps to one day",
			store: &fakeBudgetStore{
				income:   core.Money{Cents: 300000},
				expenses: core.Money{Cents: 120000},
				goals: []core.SavingsGoal{
					{Name: "laptop", Target: core.Money{Cents: 20000}, Saved: core.Money{Cents: 5000}, DueDate: "2024-05-01"},
				},
			},
			daysInMonth: 30,
			wantSavings: 150,
			wantBudget:  (3000 - 1200 - 150) / 30.0,
		},
		{
			name: "overfunded goal contributes nothing",
			store: &fakeBudgetStore{
				income:   core.Money{Cents: 300000},
				expenses: core.Money{Cents: 120000},
				goals: []core.SavingsGoal{
					{Name: "done", Target: core.Money{Cents: 10000}, Saved: core.Money{Cents: 15000}, DueDate: "2024-06-11"},
				},
			},
			daysInMonth: 30,
			wantSavings: 0,
			wantBudget:  (3000 - 1200) / 30.0,
		},
		{
			name: "unreadable due date skipped with warning",
			store: &fakeBudgetStore{
				income:   core.Money{Cents: 300000},
				expenses: core.Money{Cents: 120000},
				goals: []core.SavingsGoal{
					{Name: "broken", Target: core.Money{Cents: 50000}, DueDate: "soon"},
					{Name: "missing", Target: core.Money{Cents: 50000}},
					{Name: "valid", Target: core.Money{Cents: 60000}, Saved: core.Money{Cents: 10000}, DueDate: "2024-06-11"},
				},
			},
			daysInMonth:  30,
			wantSavings:  50,
			wantBudget:   (3000 - 1200 - 50) / 30.0,
			wantWarnings: 2,
		},
		{
			name: "negative budget returned verbatim",
			store: &fakeBudgetStore{
				income:   core.Money{Cents: 100000},
				expenses: core.Money{Cents: 150000},
			},
			daysInMonth: 30,
			wantSavings: 0,
			wantBudget:  (1000 - 1500) / 30.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewBudgetCalculator(tt.store)
			report, err := calc.CalculateDailyBudget(context.Background(), now, tt.daysInMonth)
			if err != nil {
				t.Fatalf("calculate: %v", err)
			}
			if !almostEqual(report.SavingsNeededToday, tt.wantSavings) {
				t.Errorf("SavingsNeededToday = %v, want %v", report.SavingsNeededToday, tt.wantSavings)
			}
			if !almostEqual(report.DailyBudget, tt.wantBudget) {
				t.Errorf("DailyBudget = %v, want %v", report.DailyBudget, tt.wantBudget)
			}
			if len(report.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d", report.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestCalculateDailyBudgetRejectsBadDays(t *testing.T) {
	calc := NewBudgetCalculator(&fakeBudgetStore{})
	for _, days := range []int{0, -1} {
		if _, err := calc.CalculateDailyBudget(context.Background(), time.Now(), days); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("days=%d: expected ErrInvalidMonth, got %v", days, err)
		}
	}
}

func TestCalculateDailyBudgetPropagatesStoreError(t *testing.T) {
	calc := NewBudgetCalculator(&fakeBudgetStore{sumIncomeErr: errors.New("db closed")})
	if _, err := calc.CalculateDailyBudget(context.Background(), time.Now(), 30); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnalytics(t *testing.T) {
	store := &fakeBudgetStore{
		income:   core.Money{Cents: 300000},
		expenses: core.Money{Cents: 120000},
		byCategory: []core.CategoryAmount{
			{Name: "rent", Amount: 850},
			{Name: "groceries", Amount: 350},
		},
		recurring: map[core.EntryType]core.Money{
			core.Income:  {Cents: 250000},
			core.Expense: {Cents: 88000},
		},
		goals: []core.SavingsGoal{
			{ID: 1, Name: "vacation", Target: core.Money{Cents: 60000}, Saved: core.Money{Cents: 15000}, DueDate: "2025-08-01"},
			{ID: 2, Name: "zero target", Target: core.Money{Cents: 0}, Saved: core.Money{Cents: 100}},
		},
	}

	report, err := NewBudgetCalculator(store).Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if report.TotalIncome != 3000 || report.TotalExpenses != 1200 {
		t.Fatalf("totals = %v/%v", report.TotalIncome, report.TotalExpenses)
	}
	if len(report.ByCategory) != 2 || report.ByCategory[0].Name != "rent" {
		t.Fatalf("unexpected breakdown %+v", report.ByCategory)
	}
	if report.RecurringIncome != 2500 || report.RecurringExpenses != 880 {
		t.Fatalf("recurring = %v/%v", report.RecurringIncome, report.RecurringExpenses)
	}
	if len(report.Goals) != 2 {
		t.Fatalf("goals = %+v", report.Goals)
	}
	if !almostEqual(report.Goals[0].Percent, 25) {
		t.Errorf("percent = %v, want 25", report.Goals[0].Percent)
	}
	if report.Goals[1].Percent != 0 {
		t.Errorf("zero-target percent = %v, want 0", report.Goals[1].Percent)
	}
	if !almostEqual(report.RemainingBudget, 3000-(1200+880)) {
		t.Errorf("remaining = %v", report.RemainingBudget)
	}
	if report.Overspending {
		t.Error("overspending flagged with positive remaining budget")
	}
}

func TestAnalyticsOverspending(t *testing.T) {
	store := &fakeBudgetStore{
		income:   core.Money{Cents: 100000},
		expenses: core.Money{Cents: 90000},
		recurring: map[core.EntryType]core.Money{
			core.Expense: {Cents: 20000},
		},
	}

	report, err := NewBudgetCalculator(store).Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if !report.Overspending {
		t.Fatal("expected overspending flag")
	}
	if !almostEqual(report.RemainingBudget, -100) {
		t.Fatalf("remaining = %v, want -100", report.RemainingBudget)
	}
}
