// Package export defines the audit-ledger boundary the worker writes
// change rows to.
package export

import (
	"context"
	"time"
)

// Row is one exported change: what happened, to which record, and the
// monetary amount involved when the record carries one.
type Row struct {
	Collection  string
	Op          string
	ID          string
	Summary     string
	AmountCents int64
	ChangedAt   time.Time
}

// LedgerWriter appends rows to the export ledger.
type LedgerWriter interface {
	Append(ctx context.Context, row Row) error
}
