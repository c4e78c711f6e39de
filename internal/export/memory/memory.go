// Package memory is an in-process ledger used by tests.
package memory

import (
	"context"
	"sync"

	"fatture/internal/export"
)

type Ledger struct {
	mu   sync.Mutex
	rows []export.Row
}

var _ export.LedgerWriter = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(_ context.Context, row export.Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, row)
	return nil
}

// Rows returns a copy of everything appended so far.
func (l *Ledger) Rows() []export.Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]export.Row(nil), l.rows...)
}
