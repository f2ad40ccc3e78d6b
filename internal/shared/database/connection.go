package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"launches-server/internal/shared/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB is the process wide store handle. It is constructed once at startup and passed
// to every repository.
type DB struct {
	*sqlx.DB
	Driver string
}

func Connect(ctx context.Context, cfg *config.Config) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect")
	logger.Debug("Initializing database connection")

	logger.Info("Connecting to database",
		"driver", cfg.Database.Driver,
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"user", cfg.Database.User,
		"database", cfg.Database.Name,
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	db, err := Open(cfg.Database.Driver, cfg.DataSourceName())
	if err != nil {
		logger.Error("Failed to open database connection", "error", err)
		return nil, err
	}

	if cfg.Database.Driver == config.DriverPostgres {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger.Debug("Testing database connection with ping")
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Database.Driver)
	return db, nil
}

// Open creates the pool without pinging it. SQLite handles are limited to a single
// connection so writers never contend for the file lock.
func Open(driver, dsn string) (*DB, error) {
	sqlDB, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	return &DB{DB: sqlDB, Driver: driver}, nil
}

// Ping reports whether the store is reachable, used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
