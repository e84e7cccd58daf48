// Package services holds the budget computation engine: the recurring
// transaction applier, the daily-budget aggregator, and entry orchestration.
package services

import (
	"context"

	"finlite/internal/core"
)

// The services depend on narrow views of the record store so tests can
// substitute fakes. *storage.SQLiteRepository satisfies all of them.

// ApplierStore is the store surface used by the recurring applier.
type ApplierStore interface {
	ListRecurringEntries(ctx context.Context, t *core.EntryType) ([]core.RecurringEntry, error)
	GetProcessedPeriod(ctx context.Context) (core.Period, bool, error)
	MaterializeRecurring(ctx context.Context, incomes []core.IncomeRecord, expenses []core.ExpenseRecord, p core.Period) (incomeIDs, expenseIDs []int64, err error)
}

// BudgetStore is the store surface used by the daily-budget calculator.
type BudgetStore interface {
	SumIncome(ctx context.Context) (core.Money, error)
	SumExpenses(ctx context.Context) (core.Money, error)
	ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error)
}

// AnalyticsStore extends BudgetStore with the aggregates the analytics
// report needs.
type AnalyticsStore interface {
	BudgetStore
	CategorySums(ctx context.Context) ([]core.CategoryAmount, error)
	SumRecurring(ctx context.Context, t core.EntryType) (core.Money, error)
}

// EntryStore is the store surface used for manual record entry.
type EntryStore interface {
	InsertIncome(ctx context.Context, amount core.Money, date core.Date) (int64, error)
	InsertExpense(ctx context.Context, category string, amount core.Money, date core.Date) (int64, error)
	DeleteIncome(ctx context.Context, id int64) error
	DeleteExpense(ctx context.Context, id int64) error
}

// LedgerPublisher notifies the sync worker about new records. Implemented
// by *amqp.Client; nil-able, since the ledger mirror is optional.
type LedgerPublisher interface {
	PublishLedgerSync(ctx context.Context, kind core.EntryType, id int64) error
}
