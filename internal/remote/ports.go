// Package remote defines the boundary to the hosted data service.
//
// Every backend exposes row-level CRUD against named tables and returns the
// service's authoritative representation of affected rows, so callers can
// patch their in-memory state without a refetch.
package remote

import (
	"context"
	"encoding/json"
	"errors"
)

// Filter holds equality filters applied to a Select, column name to value.
type Filter map[string]string

// References maps table.column to the table the column points at. The
// hosted service owns these constraints; the local backends enforce the
// same set so constraint rejections behave identically offline.
// An empty value in a row skips the check (optional references).
var References = map[string]map[string]string{
	"invoices": {"customer_id": "customers"},
	"items":    {"category_id": "item_categories"},
	"expenses": {
		"category_id": "item_categories",
		"account_id":  "accounts",
		"customer_id": "customers",
	},
	"payments": {"invoice_id": "invoices"},
	"receipts": {"invoice_id": "invoices"},
}

var (
	// ErrNotFound is returned when an update or delete targets a row that
	// does not exist on the service.
	ErrNotFound = errors.New("row not found")

	// ErrConstraint is returned when the service rejects a mutation
	// because of a referential constraint.
	ErrConstraint = errors.New("referential constraint violation")
)

// Service is the row-level query/mutate interface to the remote backend.
type Service interface {
	// Select returns all rows of a table matching the filter (nil for all),
	// each as the raw JSON object the service stores.
	Select(ctx context.Context, table string, filter Filter) ([]json.RawMessage, error)

	// Insert adds one row and returns the stored representation, including
	// the server-assigned id and timestamps.
	Insert(ctx context.Context, table string, body any) (json.RawMessage, error)

	// Update patches the row with the given id and returns the stored
	// representation after the patch.
	Update(ctx context.Context, table, id string, patch map[string]any) (json.RawMessage, error)

	// Delete removes the row with the given id.
	Delete(ctx context.Context, table, id string) error
}
