package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finlite/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finlite_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestIncomeExpenseRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertIncome(ctx, core.Money{Cents: 300000}, core.NewDate(2024, 6, 1)); err != nil {
		t.Fatalf("insert income: %v", err)
	}
	if _, err := repo.InsertIncome(ctx, core.Money{Cents: 50000}, core.NewDate(2024, 6, 2)); err != nil {
		t.Fatalf("insert income: %v", err)
	}
	if _, err := repo.InsertExpense(ctx, "rent", core.Money{Cents: 85000}, core.NewDate(2024, 6, 1)); err != nil {
		t.Fatalf("insert expense: %v", err)
	}

	income, err := repo.SumIncome(ctx)
	if err != nil || income.Cents != 350000 {
		t.Fatalf("SumIncome = %d, %v; want 350000", income.Cents, err)
	}
	expenses, err := repo.SumExpenses(ctx)
	if err != nil || expenses.Cents != 85000 {
		t.Fatalf("SumExpenses = %d, %v; want 85000", expenses.Cents, err)
	}

	list, err := repo.ListExpenses(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListExpenses = %v, %v; want 1 record", list, err)
	}
	if list[0].Category != "rent" || list[0].Date.String() != "2024-06-01" {
		t.Fatalf("unexpected expense %+v", list[0])
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.DeleteIncome(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteRecurringEntry(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.AddToSavingsGoal(ctx, 42, core.Money{Cents: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSavingsGoalLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateSavingsGoal(ctx, core.SavingsGoal{
		Name:    "vacation",
		Target:  core.Money{Cents: 60000},
		DueDate: "2025-08-01",
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	if err := repo.AddToSavingsGoal(ctx, id, core.Money{Cents: 10000}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	goals, err := repo.ListSavingsGoals(ctx)
	if err != nil || len(goals) != 1 {
		t.Fatalf("ListSavingsGoals = %v, %v", goals, err)
	}
	if goals[0].Saved.Cents != 10000 || goals[0].DueDate != "2025-08-01" {
		t.Fatalf("unexpected goal %+v", goals[0])
	}

	if err := repo.DeleteSavingsGoalByName(ctx, "vacation"); err != nil {
		t.Fatalf("delete by name: %v", err)
	}
	if err := repo.DeleteSavingsGoalByName(ctx, "vacation"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecurringEntries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := []core.RecurringEntry{
		{Type: core.Income, Description: "salary", Amount: core.Money{Cents: 250000}, StartDate: core.NewDate(2024, 1, 1)},
		{Type: core.Expense, Description: "rent", Amount: core.Money{Cents: 85000}, StartDate: core.NewDate(2024, 1, 1)},
		{Type: core.Expense, Description: "gym", Amount: core.Money{Cents: 3000}, StartDate: core.NewDate(2024, 1, 1)},
	}
	for _, e := range entries {
		if _, err := repo.CreateRecurringEntry(ctx, e); err != nil {
			t.Fatalf("create recurring: %v", err)
		}
	}

	expense := core.Expense
	got, err := repo.ListRecurringEntries(ctx, &expense)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListRecurringEntries(expense) = %v, %v; want 2", got, err)
	}

	all, err := repo.ListRecurringEntries(ctx, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListRecurringEntries(nil) = %v, %v; want 3", all, err)
	}

	sum, err := repo.SumRecurring(ctx, core.Expense)
	if err != nil || sum.Cents != 88000 {
		t.Fatalf("SumRecurring(expense) = %d, %v; want 88000", sum.Cents, err)
	}

	if err := repo.UpdateRecurringEntry(ctx, all[2].ID, "gym membership", core.Money{Cents: 3500}); err != nil {
		t.Fatalf("update recurring: %v", err)
	}
}

func TestProcessedPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.GetProcessedPeriod(ctx); err != nil || ok {
		t.Fatalf("expected no processed period yet, got ok=%v err=%v", ok, err)
	}

	if err := repo.SetProcessedPeriod(ctx, core.Period{Year: 2024, Month: 5}); err != nil {
		t.Fatalf("set period: %v", err)
	}
	if err := repo.SetProcessedPeriod(ctx, core.Period{Year: 2024, Month: 6}); err != nil {
		t.Fatalf("upsert period: %v", err)
	}

	p, ok, err := repo.GetProcessedPeriod(ctx)
	if err != nil || !ok {
		t.Fatalf("get period: ok=%v err=%v", ok, err)
	}
	if !p.Equal(core.Period{Year: 2024, Month: 6}) {
		t.Fatalf("unexpected period %v", p)
	}
}

func TestMaterializeRecurring(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	date := core.NewDate(2024, 6, 3)
	incomes := []core.IncomeRecord{{Amount: core.Money{Cents: 250000}, Date: date}}
	expenses := []core.ExpenseRecord{
		{Category: "rent", Amount: core.Money{Cents: 85000}, Date: date},
		{Category: "gym", Amount: core.Money{Cents: 3000}, Date: date},
	}

	incomeIDs, expenseIDs, err := repo.MaterializeRecurring(ctx, incomes, expenses, core.Period{Year: 2024, Month: 6})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(incomeIDs) != 1 || len(expenseIDs) != 2 {
		t.Fatalf("ids = %v, %v; want 1 income and 2 expense ids", incomeIDs, expenseIDs)
	}

	income, _ := repo.SumIncome(ctx)
	if income.Cents != 250000 {
		t.Fatalf("income = %d, want 250000", income.Cents)
	}
	spent, _ := repo.SumExpenses(ctx)
	if spent.Cents != 88000 {
		t.Fatalf("expenses = %d, want 88000", spent.Cents)
	}

	p, ok, err := repo.GetProcessedPeriod(ctx)
	if err != nil || !ok || !p.Equal(core.Period{Year: 2024, Month: 6}) {
		t.Fatalf("processed period = %v ok=%v err=%v", p, ok, err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil || len(pending) != 3 {
		t.Fatalf("GetPendingSync = %v, %v; want 3", pending, err)
	}

	if err := repo.MarkSynced(ctx, pending[0].Kind, pending[0].ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil || len(pending) != 2 {
		t.Fatalf("GetPendingSync after mark = %v, %v; want 2", pending, err)
	}
}

func TestCategorySums(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	date := core.NewDate(2024, 6, 1)
	for _, e := range []struct {
		cat   string
		cents int64
	}{
		{"groceries", 12000},
		{"rent", 85000},
		{"groceries", 8000},
	} {
		if _, err := repo.InsertExpense(ctx, e.cat, core.Money{Cents: e.cents}, date); err != nil {
			t.Fatalf("insert expense: %v", err)
		}
	}

	sums, err := repo.CategorySums(ctx)
	if err != nil {
		t.Fatalf("category sums: %v", err)
	}
	if len(sums) != 2 || sums[0].Name != "rent" || sums[1].Name != "groceries" {
		t.Fatalf("unexpected sums %+v", sums)
	}
	if sums[1].Amount != 200.0 {
		t.Fatalf("groceries = %v, want 200.0", sums[1].Amount)
	}
}
