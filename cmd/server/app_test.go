package main

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildApplication(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log, _ := logger.GetTestLogger(t)

	t.Run("wires services", func(t *testing.T) {
		cfg := &config.Config{Auth: auth.DefaultJWTConfig()}

		app, err := buildApplication(cfg, log, db)
		require.NoError(t, err)
		assert.NotNil(t, app.userService)
		assert.NotNil(t, app.taskService)
		assert.NotNil(t, app.jwtService)
		assert.NotNil(t, app.setupRouter())
	})

	t.Run("rejects short signing secret", func(t *testing.T) {
		cfg := &config.Config{Auth: auth.DefaultJWTConfig()}
		cfg.Auth.JWTSecret = "short"

		_, err := buildApplication(cfg, log, db)
		assert.Error(t, err)
	})
}

func TestConfigurePool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	configurePool(db, config.DatabaseConfig{MaxOpenConns: 7, MaxIdleConns: 3, ConnMaxLifetimeMinutes: 5})

	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
