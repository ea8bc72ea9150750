package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
)

// loadAppConfig loads the application configuration from the environment,
// an optional .env file and an optional config.yaml.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"enforce_roles", cfg.Auth.EnforceRoles)

	return cfg, nil
}
