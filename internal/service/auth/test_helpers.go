package auth

import (
	"fmt"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/config"
)

// TestJWTSecret is a signing key long enough to satisfy NewJWTService.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		TokenLifetimeMinutes: 1440,
		BCryptCost:           4,
		EnforceRoles:         true,
	}
}

// NewTestJWTService creates a JWT service with an explicit secret, lifetime and clock.
// It panics on invalid arguments, which only a broken test can supply.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	svc, err := newHMACJWTService(secret, lifetime, timeFunc)
	if err != nil {
		// ALLOW-PANIC
		panic(fmt.Sprintf("failed to create test JWT service: %v", err))
	}
	return svc
}
