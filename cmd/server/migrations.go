package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/hearthsidehq/hearthside-api/internal/config"
	"github.com/hearthsidehq/hearthside-api/internal/redact"
)

// runMigrations executes the given goose command against the configured
// database. The connection string never appears in logs.
func runMigrations(cfg *config.Config, command, dir, migrationName string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %s", redact.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close migration database connection", "error", err)
		}
	}()

	slog.Info("Running migrations", "command", command, "dir", dir)

	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	case "reset":
		err = goose.Reset(db, dir)
	case "create":
		if migrationName == "" {
			return fmt.Errorf("migration name is required for the create command")
		}
		err = goose.Create(db, dir, migrationName, "sql")
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration command %q failed: %s", command, redact.Error(err))
	}

	slog.Info("Migration command completed", "command", command)
	return nil
}
