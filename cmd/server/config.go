package main

import (
	"log/slog"

	"launches-server/internal/shared/config"
	"launches-server/internal/shared/logger"

	"github.com/spf13/cobra"
)

// loadConfig reads the environment, applies flag overrides and installs the default
// logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		cfg.Planets.DataPath = data
	}

	logger.Init(cfg)
	slog.Info("Configuration loaded",
		"component", "cli",
		"environment", cfg.Server.Environment,
		"db_driver", cfg.Database.Driver,
		"redis_enabled", cfg.Redis.Enabled,
		"import_enabled", cfg.SpaceX.ImportEnabled,
	)

	return cfg, nil
}
