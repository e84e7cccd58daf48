package services

import (
	"context"
	"fmt"
	"log/slog"

	"finlite/internal/core"
)

// EntryService records manual income and expense entries and notifies the
// ledger mirror about them.
type EntryService struct {
	store     EntryStore
	publisher LedgerPublisher
}

// NewEntryService creates the service. publisher may be nil when no message
// broker is configured; entries are then stored locally only.
func NewEntryService(store EntryStore, publisher LedgerPublisher) *EntryService {
	return &EntryService{store: store, publisher: publisher}
}

// RecordIncome stores a new income record and returns its id.
func (s *EntryService) RecordIncome(ctx context.Context, amount core.Money, date core.Date) (int64, error) {
	record := core.IncomeRecord{Amount: amount, Date: date}
	if err := record.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.InsertIncome(ctx, amount, date)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	s.notify(ctx, core.Income, id)
	return id, nil
}

// RecordExpense stores a new expense record and returns its id.
func (s *EntryService) RecordExpense(ctx context.Context, category string, amount core.Money, date core.Date) (int64, error) {
	record := core.ExpenseRecord{Category: category, Amount: amount, Date: date}
	if err := record.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.InsertExpense(ctx, category, amount, date)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	s.notify(ctx, core.Expense, id)
	return id, nil
}

func (s *EntryService) DeleteIncome(ctx context.Context, id int64) error {
	return s.store.DeleteIncome(ctx, id)
}

func (s *EntryService) DeleteExpense(ctx context.Context, id int64) error {
	return s.store.DeleteExpense(ctx, id)
}

// notify publishes a ledger sync message for a stored record. The record is
// already durable, so failures only log; the worker's pending sweep picks
// the row up later.
func (s *EntryService) notify(ctx context.Context, kind core.EntryType, id int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No message broker configured, skipping ledger sync",
			"entry_type", string(kind), "record_id", id)
		return
	}
	if err := s.publisher.PublishLedgerSync(ctx, kind, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger sync message",
			"entry_type", string(kind), "record_id", id, "error", err)
	}
}
