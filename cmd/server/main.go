package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "launches-server",
		Short: "Launch scheduling and habitable planet API",
		Long: `launches-server serves the launches and planets API. Without a subcommand it runs
the server after migrating the store, loading the planet catalog and seeding historical
launches.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.PersistentFlags().String("port", "", "HTTP port (overrides SERVER_PORT)")
	rootCmd.PersistentFlags().String("data", "", "planet dataset path (overrides PLANETS_DATA_PATH)")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
