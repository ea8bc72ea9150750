package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
)

// dbCheckTimeout bounds the connectivity probe of /api/test-db.
const dbCheckTimeout = 2 * time.Second

// Pinger is the part of *sql.DB the health endpoints need.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and database connectivity checks.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:     db,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// StatusResponse is the payload of a successful connectivity check.
type StatusResponse struct {
	Status string `json:"status"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// TestDB handles GET /api/test-db.
func (h *HealthHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("database connectivity check failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "ok"})
}
