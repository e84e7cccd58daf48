package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finlite/internal/core"
)

// ErrNoClock is returned when the current date cannot be determined. The
// applier fails closed in that case: nothing is materialized and the
// processed period is not advanced.
var ErrNoClock = errors.New("cannot determine current date")

// RecurringApplier materializes recurring templates into concrete income
// and expense records, at most once per calendar month.
type RecurringApplier struct {
	store     ApplierStore
	publisher LedgerPublisher
}

// NewRecurringApplier creates an applier. publisher may be nil; the ledger
// mirror then relies on the worker's periodic pending-record sweep.
func NewRecurringApplier(store ApplierStore, publisher LedgerPublisher) *RecurringApplier {
	return &RecurringApplier{store: store, publisher: publisher}
}

// ApplyResult reports what one applier run did.
type ApplyResult struct {
	Period          core.Period `json:"period"`
	AlreadyApplied  bool        `json:"already_applied"`
	IncomesCreated  int         `json:"incomes_created"`
	ExpensesCreated int         `json:"expenses_created"`
	Warnings        []string    `json:"warnings,omitempty"`
}

// Apply materializes every recurring entry for the month containing now,
// unless that month has already been processed. Invalid templates are
// skipped with a warning; a storage failure leaves the processed period
// untouched so the run can be retried.
func (a *RecurringApplier) Apply(ctx context.Context, now time.Time) (ApplyResult, error) {
	if now.IsZero() {
		return ApplyResult{}, ErrNoClock
	}

	period := core.PeriodOf(now)
	result := ApplyResult{Period: period}

	last, ok, err := a.store.GetProcessedPeriod(ctx)
	if err != nil {
		return result, fmt.Errorf("read processed period: %w", err)
	}
	if ok && last.Equal(period) {
		slog.InfoContext(ctx, "Recurring transactions already applied",
			"period", period.String())
		result.AlreadyApplied = true
		return result, nil
	}

	entries, err := a.store.ListRecurringEntries(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("list recurring entries: %w", err)
	}

	today := core.DateOf(now)
	var incomes []core.IncomeRecord
	var expenses []core.ExpenseRecord

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipped recurring entry %d (%s): %v", e.ID, e.Description, err))
			continue
		}
		switch e.Type {
		case core.Income:
			incomes = append(incomes, core.IncomeRecord{Amount: e.Amount, Date: today})
		case core.Expense:
			expenses = append(expenses, core.ExpenseRecord{Category: e.Description, Amount: e.Amount, Date: today})
		}
	}

	// An empty month still counts as processed.
	incomeIDs, expenseIDs, err := a.store.MaterializeRecurring(ctx, incomes, expenses, period)
	if err != nil {
		return result, fmt.Errorf("materialize recurring entries: %w", err)
	}
	result.IncomesCreated = len(incomeIDs)
	result.ExpensesCreated = len(expenseIDs)

	a.publishAll(ctx, core.Income, incomeIDs, &result)
	a.publishAll(ctx, core.Expense, expenseIDs, &result)

	slog.InfoContext(ctx, "Recurring transactions applied",
		"period", period.String(),
		"incomes_created", result.IncomesCreated,
		"expenses_created", result.ExpensesCreated,
		"skipped", len(entries)-result.IncomesCreated-result.ExpensesCreated)

	return result, nil
}

// publishAll sends ledger sync messages for the materialized records.
// Publish failures never fail the run; the records are durable locally and
// the worker sweeps unsynced rows.
func (a *RecurringApplier) publishAll(ctx context.Context, kind core.EntryType, ids []int64, result *ApplyResult) {
	if a.publisher == nil {
		return
	}
	for _, id := range ids {
		if err := a.publisher.PublishLedgerSync(ctx, kind, id); err != nil {
			slog.WarnContext(ctx, "Failed to publish ledger sync message",
				"entry_type", string(kind), "record_id", id, "error", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("ledger sync not published for %s %d: %v", kind, id, err))
		}
	}
}
