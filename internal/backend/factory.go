package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fatture/internal/remote/memory"
	"fatture/internal/remote/supabase"
	"fatture/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Service: repo, Cleanup: repo.Close}, nil

	case Supabase:
		client, err := supabase.New(supabase.Config{
			ProjectURL: config.SupabaseURL,
			APIKey:     config.SupabaseAPIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize Supabase client: %w", err)
		}
		f.logger.Info("Initialized Supabase backend", "project_url", config.SupabaseURL)
		return &Result{Service: client}, nil

	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Service: memory.New()}, nil
	}
}
