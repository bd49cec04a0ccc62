// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command migrate applies or rolls back the schema without starting the API.
//
// # Usage
//
//	migrate up
//	migrate down --steps 1
//	migrate version
//
// Only DATABASE_URL and MIGRATION_PATH are read, so it runs without token secrets.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taibuivan/vidora/internal/platform/migration"
)

type settings struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "vidora-migrate"))

	if err := newRootCommand(logger).Execute(); err != nil {
		logger.Error("migrate_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the Vidora database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(logger, func(runner *migration.Runner) error {
				return runner.Up()
			})
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(logger, func(runner *migration.Runner) error {
				return runner.Down(steps)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(logger, func(runner *migration.Runner) error {
				version, dirty, err := runner.Version()
				if err != nil {
					return err
				}
				logger.Info("migration_version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
				return nil
			})
		},
	}

	root.AddCommand(upCmd, downCmd, versionCmd)
	return root
}

// withRunner loads settings, opens the migrator, and closes it after fn returns.
func withRunner(logger *slog.Logger, fn func(*migration.Runner) error) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}

	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	runner, err := migration.Open(cfg.DatabaseURL, cfg.MigrationPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return fn(runner)
}
