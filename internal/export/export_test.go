package export

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"finlite/internal/core"
	"finlite/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "export_test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seed(t *testing.T, repo *storage.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.InsertIncome(ctx, core.Money{Cents: 300000}, core.NewDate(2024, 6, 1)); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := repo.InsertExpense(ctx, "rent", core.Money{Cents: 85000}, core.NewDate(2024, 6, 1)); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	if _, err := repo.CreateSavingsGoal(ctx, core.SavingsGoal{
		Name:    "vacation",
		Target:  core.Money{Cents: 60000},
		Saved:   core.Money{Cents: 10000},
		DueDate: "2025-08-01",
	}); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	if _, err := repo.CreateRecurringEntry(ctx, core.RecurringEntry{
		Type:        core.Expense,
		Description: "gym",
		Amount:      core.Money{Cents: 3000},
		StartDate:   core.NewDate(2024, 1, 1),
	}); err != nil {
		t.Fatalf("seed recurring: %v", err)
	}
	if err := repo.SetProcessedPeriod(ctx, core.Period{Year: 2024, Month: 6}); err != nil {
		t.Fatalf("seed period: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestRepo(t)
	seed(t, source)

	snap, err := Collect(ctx, source)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(snap.Income) != 1 || snap.Income[0].Amount != 3000 {
		t.Fatalf("unexpected income %+v", snap.Income)
	}
	if len(snap.Expenses) != 1 || snap.Expenses[0].Category != "rent" {
		t.Fatalf("unexpected expenses %+v", snap.Expenses)
	}
	if snap.ProcessedPeriod == nil || snap.ProcessedPeriod.Month != 6 {
		t.Fatalf("unexpected period %+v", snap.ProcessedPeriod)
	}

	restored := newTestRepo(t)
	if err := Import(ctx, restored, snap); err != nil {
		t.Fatalf("import: %v", err)
	}

	again, err := Collect(ctx, restored)
	if err != nil {
		t.Fatalf("collect restored: %v", err)
	}
	if !reflect.DeepEqual(snap, again) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", snap, again)
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seed(t, repo)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := WriteFile(ctx, repo, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	snap, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(snap.Recurring) != 1 || snap.Recurring[0].Description != "gym" {
		t.Fatalf("unexpected recurring %+v", snap.Recurring)
	}
	if snap.SavingsGoals[0].Saved != 100 {
		t.Fatalf("saved = %v, want 100", snap.SavingsGoals[0].Saved)
	}
}

func TestImportRejectsBadData(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	bad := &Snapshot{Recurring: []RecurringRecord{{Type: "transfer", Description: "x", Amount: 1, StartDate: "2024-01-01"}}}
	if err := Import(ctx, repo, bad); err == nil {
		t.Fatal("expected error for unknown recurring type")
	}

	bad = &Snapshot{Income: []IncomeEntry{{Amount: 10, Date: "not-a-date"}}}
	if err := Import(ctx, repo, bad); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
