package worker

import (
	"context"
	"testing"
	"time"

	"fatture/internal/core"
	"fatture/internal/events"
	exportmem "fatture/internal/export/memory"
	remotemem "fatture/internal/remote/memory"
	"fatture/internal/store"
)

func TestHandleChange_ExportsRow(t *testing.T) {
	backend := remotemem.New()
	ledger := exportmem.New()
	ctx := context.Background()

	s := store.New(backend)
	cat, err := s.CreateCategory(ctx, core.ItemCategory{Name: "Travel"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	exp, err := s.CreateExpense(ctx, core.Expense{
		CategoryID:  cat.ID,
		AccountID:   mustAccount(t, s).ID,
		Description: "Train tickets",
		Amount:      core.Money{Cents: 2350},
		Status:      core.ExpensePending,
		Method:      core.MethodCash,
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	w := NewExportWorker(backend, ledger)
	msg := events.NewChangeMessage(string(store.Expenses), store.OpCreate, exp.ID)
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 1 {
		t.Fatalf("ledger has %d rows, want 1", len(rows))
	}
	got := rows[0]
	if got.Summary != "Train tickets" {
		t.Errorf("summary = %q", got.Summary)
	}
	if got.AmountCents != 2350 {
		t.Errorf("amount = %d, want 2350", got.AmountCents)
	}
	if got.Collection != "expenses" || got.Op != "create" || got.ID != exp.ID {
		t.Errorf("coordinates = %+v", got)
	}
}

func TestHandleChange_DeleteSkipsFetch(t *testing.T) {
	ledger := exportmem.New()
	w := NewExportWorker(remotemem.New(), ledger)

	msg := &events.ChangeMessage{
		Collection: "invoices",
		Op:         "delete",
		ID:         "mem:9",
		Timestamp:  time.Now(),
	}
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rows := ledger.Rows()
	if len(rows) != 1 || rows[0].Op != "delete" {
		t.Fatalf("unexpected ledger: %+v", rows)
	}
}

func TestHandleChange_RowAlreadyGone(t *testing.T) {
	ledger := exportmem.New()
	w := NewExportWorker(remotemem.New(), ledger)

	msg := events.NewChangeMessage("customers", "update", "mem:404")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("vanished row must not fail the handler: %v", err)
	}
	rows := ledger.Rows()
	if len(rows) != 1 || rows[0].Summary != "(row no longer exists)" {
		t.Fatalf("unexpected ledger: %+v", rows)
	}
}

func mustAccount(t *testing.T, s *store.Store) core.Account {
	t.Helper()
	acc, err := s.CreateAccount(context.Background(), core.Account{Name: "Cassa"})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc
}
