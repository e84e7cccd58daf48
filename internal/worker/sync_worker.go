// Package worker mirrors stored records to the spreadsheet ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finlite/internal/amqp"
	"finlite/internal/core"
	"finlite/internal/log"
	"finlite/internal/sheets"
	"finlite/internal/storage"
)

// SyncWorker handles synchronization of records from SQLite to the ledger
// mirror. It consumes AMQP messages and additionally sweeps unsynced rows,
// so a lost message only delays a row instead of dropping it.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    sheets.LedgerAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, ledger sheets.LedgerAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single ledger sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		log.FieldEntryType, string(msg.Kind),
		log.FieldRecordID, msg.ID)

	return w.syncRecord(ctx, msg.Kind, msg.ID)
}

// ProcessPendingRecords syncs any records that haven't reached the mirror
// yet. This is the backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, p := range pending {
		if err := w.syncRecord(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record",
				log.FieldEntryType, string(p.Kind), log.FieldRecordID, p.ID, log.FieldError, err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck sweeps a larger batch of unsynced rows at worker startup
// to recover from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.syncRecord(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record during startup",
				log.FieldEntryType, string(p.Kind), log.FieldRecordID, p.ID, log.FieldError, err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

// syncRecord loads one record, appends it to the ledger, and marks it
// synced. A row deleted between publish and consume is treated as done.
func (w *SyncWorker) syncRecord(ctx context.Context, kind core.EntryType, id int64) error {
	row := sheets.LedgerRow{Kind: kind}

	switch kind {
	case core.Income:
		record, err := w.storage.GetIncome(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				slog.WarnContext(ctx, "Income record gone before sync, skipping", log.FieldRecordID, id)
				return nil
			}
			return fmt.Errorf("get income from storage: %w", err)
		}
		row.Date = record.Date
		row.Label = "income"
		row.Amount = record.Amount
	case core.Expense:
		record, err := w.storage.GetExpense(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				slog.WarnContext(ctx, "Expense record gone before sync, skipping", log.FieldRecordID, id)
				return nil
			}
			return fmt.Errorf("get expense from storage: %w", err)
		}
		row.Date = record.Date
		row.Label = record.Category
		row.Amount = record.Amount
	default:
		return fmt.Errorf("%w: %q", core.ErrInvalidEntryType, string(kind))
	}

	ref, err := w.ledger.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, kind, id); err != nil {
		// The append worked; the sweep will retry the mark on the next pass.
		slog.ErrorContext(ctx, "Failed to mark as synced", log.FieldRecordID, id, log.FieldError, err)
	}

	slog.InfoContext(ctx, "Record synced",
		log.FieldEntryType, string(kind),
		log.FieldRecordID, id,
		log.FieldSheetsRef, ref,
		log.FieldAmountCents, row.Amount.Cents)

	return nil
}
