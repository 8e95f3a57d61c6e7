// Package main provides the entry point for the compendium CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0-dev"
	globalUser string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "compendium",
		Short:   "A role-play community dashboard: character roster, relationship webs, and the Hyrulean calendar",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalUser, "user", "u", "", "Acting community member ID (required for mutations)")

	rootCmd.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newCharactersCmd(),
		newRelateCmd(),
		newRelationsCmd(),
		newCalendarCmd(),
		newStatsCmd(),
		newTypesCmd(),
		newSubmitCmd(),
		newSubmissionsCmd(),
		newImportCmd(),
		newExportCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

// requireUser guards mutating commands.
func requireUser() error {
	if globalUser == "" {
		return fmt.Errorf("user is required (use --user flag)")
	}
	return nil
}
