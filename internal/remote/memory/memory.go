// Package memory is an in-process stand-in for the remote data service,
// used as the default dev backend and by tests. It enforces the same
// referential constraints the hosted service owns, so delete rejections
// can be exercised without a network.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fatture/internal/remote"
)

type Store struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID int
}

func New() *Store {
	return &Store{tables: make(map[string][]map[string]any)}
}

var _ remote.Service = (*Store)(nil)

func (s *Store) Select(_ context.Context, table string, filter remote.Filter) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []json.RawMessage
	for _, row := range s.tables[table] {
		if !matches(row, filter) {
			continue
		}
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("marshal row: %w", err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, table string, body any) (json.RawMessage, error) {
	row, err := toRow(body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReferences(table, row); err != nil {
		return nil, err
	}

	s.nextID++
	now := time.Now().UTC().Format(time.RFC3339)
	row["id"] = fmt.Sprintf("mem:%d", s.nextID)
	row["created_at"] = now
	row["updated_at"] = now
	s.tables[table] = append(s.tables[table], row)

	return json.Marshal(row)
}

func (s *Store) Update(_ context.Context, table, id string, patch map[string]any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.tables[table] {
		if row["id"] != id {
			continue
		}
		// Patch a copy so a rejected update leaves the stored row intact.
		next := make(map[string]any, len(row)+len(patch))
		for k, v := range row {
			next[k] = v
		}
		for k, v := range patch {
			if k == "id" || k == "created_at" {
				continue
			}
			next[k] = v
		}
		if err := s.checkReferences(table, next); err != nil {
			return nil, err
		}
		next["updated_at"] = time.Now().UTC().Format(time.RFC3339)
		s.tables[table][i] = next
		return json.Marshal(next)
	}
	return nil, remote.ErrNotFound
}

func (s *Store) Delete(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	idx := -1
	for i, row := range rows {
		if row["id"] == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return remote.ErrNotFound
	}
	if err := s.checkReferencedBy(table, id); err != nil {
		return err
	}
	s.tables[table] = append(rows[:idx], rows[idx+1:]...)
	return nil
}

// checkReferences verifies every reference column of a row points at an
// existing row. Caller holds the lock.
func (s *Store) checkReferences(table string, row map[string]any) error {
	for column, target := range remote.References[table] {
		val, ok := row[column].(string)
		if !ok || val == "" {
			continue
		}
		if !s.exists(target, val) {
			return fmt.Errorf("%s.%s -> %s(%s): %w", table, column, target, val, remote.ErrConstraint)
		}
	}
	return nil
}

// checkReferencedBy rejects deletion while another table still points at
// the row. Caller holds the lock.
func (s *Store) checkReferencedBy(table, id string) error {
	for other, cols := range remote.References {
		for column, target := range cols {
			if target != table {
				continue
			}
			for _, row := range s.tables[other] {
				if row[column] == id {
					return fmt.Errorf("%s.%s still references %s(%s): %w", other, column, table, id, remote.ErrConstraint)
				}
			}
		}
	}
	return nil
}

func (s *Store) exists(table, id string) bool {
	for _, row := range s.tables[table] {
		if row["id"] == id {
			return true
		}
	}
	return false
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

func toRow(body any) (map[string]any, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return row, nil
}
