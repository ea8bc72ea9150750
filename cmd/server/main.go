// Package main implements the entry point for the TaskTrack API server,
// which serves user accounts and per-user task records over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
)

// main loads configuration, sets up logging, connects to the database,
// applies the schema and serves HTTP until SIGINT or SIGTERM.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("tasktrack-api: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database connection", slog.String("error", closeErr.Error()))
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
