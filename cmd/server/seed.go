package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"launches-server/internal/app"
	"launches-server/internal/launch"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the planet catalog and import historical launches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Bootstrap(cmd.Context())
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary)
			}
			return err
		},
	}
}

func printSummary(w io.Writer, summary *app.Summary) {
	ok := color.New(color.FgGreen).Sprint("✓")

	fmt.Fprintf(w, "%s %d habitable planets in the catalog\n", ok, summary.HabitablePlanets)

	report := summary.Import
	if report == nil {
		fmt.Fprintf(w, "%s launch import disabled\n", color.New(color.FgYellow).Sprint("-"))
		return
	}

	switch report.State {
	case launch.ImportAlreadySeeded:
		fmt.Fprintf(w, "%s launch data already loaded\n", ok)
	case launch.ImportSeeded:
		fmt.Fprintf(w, "%s imported %d of %d launches in %s\n", ok, report.Saved, report.Fetched, report.Duration.Round(time.Millisecond))
	default:
		fmt.Fprintf(w, "%s launch import stopped while %s\n", color.New(color.FgRed).Sprint("✗"), report.State)
	}

	for _, failure := range report.Failures {
		fmt.Fprintf(w, "  %s %s\n", color.New(color.FgYellow).Sprint("!"), failure.Error())
	}
}
