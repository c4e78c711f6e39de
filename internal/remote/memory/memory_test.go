package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"fatture/internal/remote"
)

func insertRow(t *testing.T, s *Store, table string, body map[string]any) map[string]any {
	t.Helper()
	raw, err := s.Insert(context.Background(), table, body)
	if err != nil {
		t.Fatalf("insert into %s: %v", table, err)
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		t.Fatalf("decode inserted row: %v", err)
	}
	return row
}

func TestInsertAssignsIdentity(t *testing.T) {
	s := New()
	row := insertRow(t, s, "customers", map[string]any{"name": "Acme", "email": "a@b.it"})
	if row["id"] == "" || row["id"] == nil {
		t.Fatal("insert did not assign an id")
	}
	if row["created_at"] == nil || row["updated_at"] == nil {
		t.Fatal("insert did not assign timestamps")
	}
}

func TestSelectFilter(t *testing.T) {
	s := New()
	cust := insertRow(t, s, "customers", map[string]any{"name": "Acme"})
	insertRow(t, s, "invoices", map[string]any{"customer_id": cust["id"], "status": "draft"})
	insertRow(t, s, "invoices", map[string]any{"customer_id": cust["id"], "status": "sent"})

	rows, err := s.Select(context.Background(), "invoices", remote.Filter{"status": "sent"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("filtered select returned %d rows, want 1", len(rows))
	}
}

func TestUpdateMissingRow(t *testing.T) {
	s := New()
	_, err := s.Update(context.Background(), "customers", "mem:99", map[string]any{"name": "x"})
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertRejectsDanglingReference(t *testing.T) {
	s := New()
	_, err := s.Insert(context.Background(), "invoices", map[string]any{"customer_id": "mem:404"})
	if !errors.Is(err, remote.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}
}

func TestDeleteRestrictedWhileReferenced(t *testing.T) {
	s := New()
	cat := insertRow(t, s, "item_categories", map[string]any{"name": "Travel"})
	insertRow(t, s, "items", map[string]any{"name": "Ticket", "category_id": cat["id"]})

	err := s.Delete(context.Background(), "item_categories", cat["id"].(string))
	if !errors.Is(err, remote.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	rows, _ := s.Select(context.Background(), "item_categories", nil)
	if len(rows) != 1 {
		t.Fatal("rejected delete must leave the table unchanged")
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	s := New()
	row := insertRow(t, s, "accounts", map[string]any{"name": "Cassa"})
	if err := s.Delete(context.Background(), "accounts", row["id"].(string)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, _ := s.Select(context.Background(), "accounts", nil)
	if len(rows) != 0 {
		t.Fatalf("table still has %d rows after delete", len(rows))
	}
}

func TestRejectedUpdateLeavesRowUntouched(t *testing.T) {
	s := New()
	cat := insertRow(t, s, "item_categories", map[string]any{"name": "Transport"})
	item := insertRow(t, s, "items", map[string]any{"name": "Train", "category_id": cat["id"]})

	_, err := s.Update(context.Background(), "items", item["id"].(string), map[string]any{
		"category_id": "mem:nope",
		"name":        "Bus",
	})
	if !errors.Is(err, remote.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	rows, err := s.Select(context.Background(), "items", remote.Filter{"id": item["id"].(string)})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("select returned %d rows, want 1", len(rows))
	}
	var got map[string]any
	if err := json.Unmarshal(rows[0], &got); err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if got["category_id"] != cat["id"] || got["name"] != "Train" {
		t.Fatalf("rejected update modified the row: %+v", got)
	}
	if got["updated_at"] != item["updated_at"] {
		t.Fatalf("rejected update touched updated_at: %v -> %v", item["updated_at"], got["updated_at"])
	}
}
