// Package app assembles the long lived components shared by the CLI commands.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"launches-server/internal/launch"
	"launches-server/internal/planet"
	"launches-server/internal/shared/cache"
	"launches-server/internal/shared/config"
	"launches-server/internal/shared/database"
	appredis "launches-server/internal/shared/redis"
	"launches-server/internal/spacex"
)

type App struct {
	Config   *config.Config
	DB       *database.DB
	Redis    *appredis.Client
	Planets  *planet.Service
	Launches *launch.Service
	Importer *launch.Importer
	logger   *slog.Logger
}

// Summary describes what Bootstrap loaded.
type Summary struct {
	HabitablePlanets int
	Import           *launch.ImportReport
}

// New connects to the store, applies migrations and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	redisClient, err := appredis.Connect(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	return Assemble(cfg, db, redisClient, http.DefaultClient, logger), nil
}

// Assemble wires services over already opened connections.
func Assemble(cfg *config.Config, db *database.DB, redisClient *appredis.Client, httpClient *http.Client, logger *slog.Logger) *App {
	planetService := planet.NewService(
		planet.NewRepository(db, logger),
		cache.New(redisClient),
		cfg.Redis.CacheTTL,
		logger,
	)

	launchService := launch.NewService(
		launch.NewRepository(db, logger),
		planetService,
		cfg.Launches,
		logger,
	)

	importer := launch.NewImporter(
		launchService,
		spacex.NewClient(cfg.SpaceX.APIURL, httpClient, logger),
		cfg.SpaceX.Timeout,
		logger,
	)

	return &App{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Planets:  planetService,
		Launches: launchService,
		Importer: importer,
		logger:   logger,
	}
}

// Bootstrap loads the planet catalog and then seeds historical launches when enabled.
// Either step failing is fatal.
func (a *App) Bootstrap(ctx context.Context) (*Summary, error) {
	logger := a.logger.With("component", "app", "operation", "bootstrap")

	habitable, err := a.Planets.IngestFile(ctx, a.Config.Planets.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load planets: %w", err)
	}

	summary := &Summary{HabitablePlanets: habitable}

	if !a.Config.SpaceX.ImportEnabled {
		logger.Info("Launch import disabled")
		return summary, nil
	}

	report, err := a.Importer.Bootstrap(ctx)
	summary.Import = report
	if err != nil {
		return summary, fmt.Errorf("failed to load launches: %w", err)
	}

	return summary, nil
}

func (a *App) Close() error {
	return stderrors.Join(a.Redis.Close(), a.DB.Close())
}
