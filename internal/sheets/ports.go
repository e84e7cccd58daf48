// Package sheets defines the ports for the ledger mirror adapters.
package sheets

import (
	"context"

	"finlite/internal/core"
)

// LedgerRow is one row of the ledger mirror: a materialized or manually
// entered record flattened for a spreadsheet.
type LedgerRow struct {
	Date   core.Date
	Kind   core.EntryType
	Label  string // category for expenses, free text for income
	Amount core.Money
}

// LedgerAppender appends rows to the mirror and returns a reference to the
// written row.
type LedgerAppender interface {
	Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
}
