// Package export serializes the whole store to a JSON snapshot and restores
// one into an empty store.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"golang.org/x/sync/errgroup"

	"finlite/internal/core"
)

// Store is the storage surface the exporter needs. *storage.SQLiteRepository
// satisfies it.
type Store interface {
	ListIncome(ctx context.Context) ([]core.IncomeRecord, error)
	ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error)
	ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error)
	ListRecurringEntries(ctx context.Context, t *core.EntryType) ([]core.RecurringEntry, error)
	GetProcessedPeriod(ctx context.Context) (core.Period, bool, error)

	InsertIncome(ctx context.Context, amount core.Money, date core.Date) (int64, error)
	InsertExpense(ctx context.Context, category string, amount core.Money, date core.Date) (int64, error)
	CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (int64, error)
	CreateRecurringEntry(ctx context.Context, e core.RecurringEntry) (int64, error)
	SetProcessedPeriod(ctx context.Context, p core.Period) error
}

// Snapshot is the JSON document shape. Amounts are decimal currency units.
type Snapshot struct {
	Income          []IncomeEntry     `json:"income"`
	Expenses        []ExpenseEntry    `json:"expenses"`
	SavingsGoals    []GoalEntry       `json:"savings_goals"`
	Recurring       []RecurringRecord `json:"recurring_entries"`
	ProcessedPeriod *PeriodEntry      `json:"processed_period,omitempty"`
}

type IncomeEntry struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

type ExpenseEntry struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

type GoalEntry struct {
	Name    string  `json:"name"`
	Target  float64 `json:"target_amount"`
	Saved   float64 `json:"saved_amount"`
	DueDate string  `json:"due_date,omitempty"`
}

type RecurringRecord struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	StartDate   string  `json:"start_date"`
}

type PeriodEntry struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Collect reads every collection into a snapshot. The reads are independent
// and run concurrently.
func Collect(ctx context.Context, store Store) (*Snapshot, error) {
	snap := &Snapshot{
		Income:          []IncomeEntry{},
		Expenses:        []ExpenseEntry{},
		SavingsGoals:    []GoalEntry{},
		Recurring:       []RecurringRecord{},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := store.ListIncome(ctx)
		if err != nil {
			return fmt.Errorf("list income: %w", err)
		}
		for _, r := range records {
			snap.Income = append(snap.Income, IncomeEntry{Amount: r.Amount.Units(), Date: r.Date.String()})
		}
		return nil
	})

	g.Go(func() error {
		records, err := store.ListExpenses(ctx)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		for _, r := range records {
			snap.Expenses = append(snap.Expenses, ExpenseEntry{Category: r.Category, Amount: r.Amount.Units(), Date: r.Date.String()})
		}
		return nil
	})

	g.Go(func() error {
		goals, err := store.ListSavingsGoals(ctx)
		if err != nil {
			return fmt.Errorf("list savings goals: %w", err)
		}
		for _, goal := range goals {
			snap.SavingsGoals = append(snap.SavingsGoals, GoalEntry{
				Name:    goal.Name,
				Target:  goal.Target.Units(),
				Saved:   goal.Saved.Units(),
				DueDate: goal.DueDate,
			})
		}
		return nil
	})

	g.Go(func() error {
		entries, err := store.ListRecurringEntries(ctx, nil)
		if err != nil {
			return fmt.Errorf("list recurring entries: %w", err)
		}
		for _, e := range entries {
			snap.Recurring = append(snap.Recurring, RecurringRecord{
				Type:        string(e.Type),
				Description: e.Description,
				Amount:      e.Amount.Units(),
				StartDate:   e.StartDate.String(),
			})
		}
		return nil
	})

	g.Go(func() error {
		p, ok, err := store.GetProcessedPeriod(ctx)
		if err != nil {
			return fmt.Errorf("get processed period: %w", err)
		}
		if ok {
			snap.ProcessedPeriod = &PeriodEntry{Year: p.Year, Month: p.Month}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// WriteFile collects a snapshot and writes it as indented JSON to path.
func WriteFile(ctx context.Context, store Store, path string) error {
	snap, err := Collect(ctx, store)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Import restores a snapshot into a store. It is meant for an empty store;
// it appends rather than replaces, and record ids are reassigned.
func Import(ctx context.Context, store Store, snap *Snapshot) error {
	for _, e := range snap.Income {
		date, err := core.ParseDate(e.Date)
		if err != nil {
			return fmt.Errorf("income record: %w", err)
		}
		if _, err := store.InsertIncome(ctx, unitsToMoney(e.Amount), date); err != nil {
			return fmt.Errorf("import income: %w", err)
		}
	}

	for _, e := range snap.Expenses {
		date, err := core.ParseDate(e.Date)
		if err != nil {
			return fmt.Errorf("expense record: %w", err)
		}
		if _, err := store.InsertExpense(ctx, e.Category, unitsToMoney(e.Amount), date); err != nil {
			return fmt.Errorf("import expense: %w", err)
		}
	}

	for _, g := range snap.SavingsGoals {
		goal := core.SavingsGoal{
			Name:    g.Name,
			Target:  unitsToMoney(g.Target),
			Saved:   unitsToMoney(g.Saved),
			DueDate: g.DueDate,
		}
		if _, err := store.CreateSavingsGoal(ctx, goal); err != nil {
			return fmt.Errorf("import savings goal %q: %w", g.Name, err)
		}
	}

	for _, r := range snap.Recurring {
		entryType, err := core.ParseEntryType(r.Type)
		if err != nil {
			return fmt.Errorf("recurring entry %q: %w", r.Description, err)
		}
		start, err := core.ParseDate(r.StartDate)
		if err != nil {
			return fmt.Errorf("recurring entry %q: %w", r.Description, err)
		}
		entry := core.RecurringEntry{
			Type:        entryType,
			Description: r.Description,
			Amount:      unitsToMoney(r.Amount),
			StartDate:   start,
		}
		if _, err := store.CreateRecurringEntry(ctx, entry); err != nil {
			return fmt.Errorf("import recurring entry %q: %w", r.Description, err)
		}
	}

	if snap.ProcessedPeriod != nil {
		p := core.Period{Year: snap.ProcessedPeriod.Year, Month: snap.ProcessedPeriod.Month}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("processed period: %w", err)
		}
		if err := store.SetProcessedPeriod(ctx, p); err != nil {
			return fmt.Errorf("import processed period: %w", err)
		}
	}

	return nil
}

// ReadFile parses a snapshot file written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

func unitsToMoney(units float64) core.Money {
	return core.Money{Cents: int64(math.Round(units * 100))}
}
