// Package backend selects and builds the remote.Service implementation
// the store runs against.
package backend

import (
	"context"

	"fatture/internal/remote"
)

// Type names a data backend.
type Type string

const (
	Memory   Type = "memory"
	SQLite   Type = "sqlite"
	Supabase Type = "supabase"
)

func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Supabase:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the resources a backend holds.
type CleanupFunc func() error

// Result contains the service instance and optional cleanup function.
type Result struct {
	Service remote.Service
	Cleanup CleanupFunc
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Supabase specific
	SupabaseURL    string
	SupabaseAPIKey string
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}
