package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launches-server/internal/app"
	"launches-server/internal/planet"
	"launches-server/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate, bootstrap and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Bootstrap(ctx); err != nil {
		return err
	}

	routes := server.NewRoutes(a.DB, a.Planets, a.Launches, cfg, logger)
	srv := server.New(cfg.Server, routes.Handler(), logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return routes.RateLimiter().Run(gctx, time.Minute)
	})

	if cfg.Planets.Watch {
		watcher := planet.NewWatcher(cfg.Planets.DataPath, a.Planets, logger)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Launches server exited")
	return nil
}
