package storage

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"fatture/internal/remote"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fatture.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insertRow(t *testing.T, repo *SQLiteRepository, table string, body map[string]any) map[string]any {
	t.Helper()
	raw, err := repo.Insert(context.Background(), table, body)
	if err != nil {
		t.Fatalf("insert into %s: %v", table, err)
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		t.Fatalf("decode row: %v", err)
	}
	return row
}

func TestInsertSelectRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	row := insertRow(t, repo, "customers", map[string]any{"name": "Acme", "email": "a@b.it"})
	if row["id"] == nil || row["id"] == "" {
		t.Fatal("insert did not assign an id")
	}

	rows, err := repo.Select(context.Background(), "customers", nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestUpdatePersistsPatch(t *testing.T) {
	repo := newTestRepo(t)
	row := insertRow(t, repo, "accounts", map[string]any{"name": "Cassa", "balance_cents": 0})

	raw, err := repo.Update(context.Background(), "accounts", row["id"].(string), map[string]any{"name": "Banca"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	var updated map[string]any
	if err := json.Unmarshal(raw, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated["name"] != "Banca" {
		t.Fatalf("name = %v, want Banca", updated["name"])
	}
	if updated["id"] != row["id"] {
		t.Fatal("update must not change the id")
	}
}

func TestUpdateMissingRow(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Update(context.Background(), "accounts", "loc:missing", map[string]any{"name": "x"})
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteConstraint(t *testing.T) {
	repo := newTestRepo(t)
	cust := insertRow(t, repo, "customers", map[string]any{"name": "Acme", "email": "a@b.it"})
	insertRow(t, repo, "invoices", map[string]any{"customer_id": cust["id"], "status": "draft"})

	err := repo.Delete(context.Background(), "customers", cust["id"].(string))
	if !errors.Is(err, remote.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	rows, _ := repo.Select(context.Background(), "customers", nil)
	if len(rows) != 1 {
		t.Fatal("rejected delete must leave the table unchanged")
	}
}

func TestSelectWithFilter(t *testing.T) {
	repo := newTestRepo(t)
	cust := insertRow(t, repo, "customers", map[string]any{"name": "Acme", "email": "a@b.it"})
	insertRow(t, repo, "invoices", map[string]any{"customer_id": cust["id"], "status": "draft"})
	insertRow(t, repo, "invoices", map[string]any{"customer_id": cust["id"], "status": "paid"})

	rows, err := repo.Select(context.Background(), "invoices", remote.Filter{"status": "paid"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("filtered select returned %d rows, want 1", len(rows))
	}
}
