package main

import (
	"fmt"

	"launches-server/internal/shared/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := database.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.RunMigrations(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date (%s)\n",
				color.New(color.FgGreen).Sprint("✓"), cfg.Database.Driver)
			return nil
		},
	}
}
