package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies all pending migrations. Safe to call multiple times;
// goose records applied versions in its own table.
func Migrate(ctx context.Context, db *DB) error {
	slog.Info("running database migrations")

	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("migration files: %w", err)
	}
	provider, err := goose.NewProvider(db.dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	for _, r := range results {
		slog.Debug("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	slog.Info("database migrations complete", "applied", len(results))
	return nil
}
