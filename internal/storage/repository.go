// Package storage provides the local SQLite backend. Rows are stored as
// JSON documents keyed by (collection, id), so the single schema serves
// every collection the store mirrors.
package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fatture/internal/remote"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ remote.Service = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Select(ctx context.Context, table string, filter remote.Filter) ([]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT body FROM records WHERE collection = ? ORDER BY created_at, id`, table)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if len(filter) > 0 {
			row, err := decodeRow([]byte(body))
			if err != nil {
				return nil, err
			}
			if !matches(row, filter) {
				continue
			}
		}
		out = append(out, json.RawMessage(body))
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Insert(ctx context.Context, table string, payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	row, err := decodeRow(raw)
	if err != nil {
		return nil, err
	}

	if err := r.checkReferences(ctx, table, row); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	row["id"] = newID()
	row["created_at"] = now
	row["updated_at"] = now

	body, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal row: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		table, row["id"], string(body), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	return body, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, table, id string, patch map[string]any) (json.RawMessage, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE collection = ? AND id = ?`, table, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, remote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s(%s): %w", table, id, err)
	}

	row, err := decodeRow([]byte(body))
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if k == "id" || k == "created_at" {
			continue
		}
		row[k] = v
	}
	if err := r.checkReferences(ctx, table, row); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	row["updated_at"] = now

	updated, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal row: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE records SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(updated), now, table, id)
	if err != nil {
		return nil, fmt.Errorf("update %s(%s): %w", table, id, err)
	}
	return updated, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, table, id string) error {
	if err := r.checkReferencedBy(ctx, table, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`, table, id)
	if err != nil {
		return fmt.Errorf("delete %s(%s): %w", table, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return remote.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) checkReferences(ctx context.Context, table string, row map[string]any) error {
	for column, target := range remote.References[table] {
		val, ok := row[column].(string)
		if !ok || val == "" {
			continue
		}
		var n int
		err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM records WHERE collection = ? AND id = ?`, target, val).Scan(&n)
		if err != nil {
			return fmt.Errorf("check reference %s.%s: %w", table, column, err)
		}
		if n == 0 {
			return fmt.Errorf("%s.%s -> %s(%s): %w", table, column, target, val, remote.ErrConstraint)
		}
	}
	return nil
}

func (r *SQLiteRepository) checkReferencedBy(ctx context.Context, table, id string) error {
	for other, cols := range remote.References {
		for column, target := range cols {
			if target != table {
				continue
			}
			rows, err := r.Select(ctx, other, remote.Filter{column: id})
			if err != nil {
				return err
			}
			if len(rows) > 0 {
				return fmt.Errorf("%s.%s still references %s(%s): %w", other, column, table, id, remote.ErrConstraint)
			}
		}
	}
	return nil
}

func newID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "loc:" + hex.EncodeToString(buf)
}

func decodeRow(raw []byte) (map[string]any, error) {
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}

func matches(row map[string]any, filter remote.Filter) bool {
	for column, want := range filter {
		got, ok := row[column].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}
