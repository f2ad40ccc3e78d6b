package planet

import (
	"context"
	"fmt"
	"log/slog"

	"launches-server/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the planet unless one with the same name exists. The name is the only
// retained field, so existing rows are never rewritten.
func (r *Repository) Upsert(ctx context.Context, keplerName string) error {
	query := r.db.Rebind(`
		INSERT INTO planets (kepler_name)
		VALUES (?)
		ON CONFLICT (kepler_name) DO NOTHING
	`)

	if _, err := r.db.ExecContext(ctx, query, keplerName); err != nil {
		r.logger.Error("Failed to upsert planet",
			"component", "planet_repository",
			"operation", "upsert",
			"kepler_name", keplerName,
			"error", err)
		return fmt.Errorf("failed to upsert planet %s: %w", keplerName, err)
	}
	return nil
}

func (r *Repository) GetAll(ctx context.Context) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_all")
	logger.Debug("Getting all planets")

	var planets []Planet
	err := r.db.SelectContext(ctx, &planets, `SELECT kepler_name FROM planets ORDER BY kepler_name`)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

func (r *Repository) Exists(ctx context.Context, keplerName string) (bool, error) {
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM planets WHERE kepler_name = ?)`)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, keplerName); err != nil {
		r.logger.Error("Failed to look up planet",
			"component", "planet_repository",
			"operation", "exists",
			"kepler_name", keplerName,
			"error", err)
		return false, fmt.Errorf("failed to look up planet %s: %w", keplerName, err)
	}
	return exists, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM planets`); err != nil {
		return 0, fmt.Errorf("failed to count planets: %w", err)
	}
	return count, nil
}
