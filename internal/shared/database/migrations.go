package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"launches-server/internal/shared/config"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

func (db *DB) RunMigrations(ctx context.Context) error {
	logger := slog.With("component", "migrations", "driver", db.Driver)
	logger.Info("Starting database migrations")

	dialect, err := gooseDialect(db.Driver)
	if err != nil {
		return err
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		logger.Error("Failed to set migration dialect", "error", err)
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "migrations"); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB.DB)
	if err != nil {
		logger.Warn("Failed to read schema version", "error", err)
	}

	logger.Info("All migrations completed successfully", "version", version)
	return nil
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}
