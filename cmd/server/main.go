// Package main implements the entry point for the Hearthside API server,
// which keeps a family's stories, circles, and timelines and serves them
// over an authenticated HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/hearthsidehq/hearthside-api/internal/config"
	"github.com/hearthsidehq/hearthside-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version, reset, create) instead of serving")
	migrationName := flag.String("migration-name", "",
		"name for a new migration, used with -migrate create")
	migrationsDir := flag.String("migrations-dir", "migrations",
		"path to the SQL migrations directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, *migrationsDir, *migrationName); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
