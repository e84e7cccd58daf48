// Package memory provides an in-memory LedgerAppender for tests and for
// running without a spreadsheet.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finlite/internal/sheets"
)

type Ledger struct {
	mu   sync.Mutex
	rows []sheets.LedgerRow

	// FailNext makes the next Append return an error, for testing retry paths.
	FailNext bool
}

var _ sheets.LedgerAppender = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(ctx context.Context, row sheets.LedgerRow) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailNext {
		l.FailNext = false
		return "", fmt.Errorf("append rejected")
	}

	l.rows = append(l.rows, row)
	return fmt.Sprintf("row-%d", len(l.rows)), nil
}

// Rows returns a copy of the appended rows.
func (l *Ledger) Rows() []sheets.LedgerRow {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]sheets.LedgerRow, len(l.rows))
	copy(out, l.rows)
	return out
}
