// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations with golang-migrate.
//
// The API server calls [RunUp] on boot; cmd/migrate exposes the same [Runner]
// for manual rollbacks.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner drives one migrate instance.
type Runner struct {
	migrator *migrate.Migrate
	logger   *slog.Logger
}

/*
Open binds the migrations directory to the target database.

Parameters:
  - dsn: postgres:// URL (rewritten to pgx5:// for the driver)
  - path: filesystem directory holding NNNNNN_name.{up,down}.sql
  - logger: *slog.Logger

Returns:
  - *Runner: Close it when done
  - error: Unreachable database or unreadable directory
*/
func Open(dsn, path string, logger *slog.Logger) (*Runner, error) {
	migrator, err := migrate.New("file://"+path, pgx5URL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	return &Runner{migrator: migrator, logger: logger}, nil
}

// Version reports the applied version. Zero means an empty schema.
func (runner *Runner) Version() (uint, bool, error) {
	version, dirty, err := runner.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to read version: %w", err)
	}
	return version, dirty, nil
}

// Up applies every pending migration. A dirty schema is refused.
func (runner *Runner) Up() error {
	from, err := runner.clean()
	if err != nil {
		return err
	}

	if err := runner.migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			runner.logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	return runner.report("migration_applied", from)
}

// Down rolls back the given number of migrations.
func (runner *Runner) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migration: steps must be positive, got %d", steps)
	}

	from, err := runner.clean()
	if err != nil {
		return err
	}

	if err := runner.migrator.Steps(-steps); err != nil {
		return fmt.Errorf("migration: down failed: %w", err)
	}

	return runner.report("migration_rolled_back", from)
}

// Close releases the source and database handles.
func (runner *Runner) Close() {
	sourceErr, databaseErr := runner.migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		runner.logger.Error("migration_close_failed", slog.Any("error", err))
	}
}

// RunUp opens a [Runner], applies pending migrations and closes it.
func RunUp(dsn, path string, logger *slog.Logger) error {
	runner, err := Open(dsn, path, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Up()
}

func (runner *Runner) clean() (uint, error) {
	version, dirty, err := runner.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("migration: schema is dirty at version %d, fix it by hand and force the version", version)
	}
	return version, nil
}

func (runner *Runner) report(event string, from uint) error {
	to, _, err := runner.Version()
	if err != nil {
		return err
	}
	runner.logger.Info(event, slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))
	return nil
}

// pgx5URL rewrites postgres:// URLs to the scheme the pgx/v5 driver registers.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool { return false }
