package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// DemoHandler serves the authenticated sample endpoints.
type DemoHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewDemoHandler creates a new DemoHandler. userService backs the profile lookup.
func NewDemoHandler(userService service.UserService, logger *slog.Logger) *DemoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "demo_handler")),
	}
}

// respondWithCaller writes message together with the caller's token identity.
func (h *DemoHandler) respondWithCaller(w http.ResponseWriter, r *http.Request, message string) {
	user, ok := getAuthenticatedUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: message,
		User: &UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Protected handles GET /api/protected.
func (h *DemoHandler) Protected(w http.ResponseWriter, r *http.Request) {
	h.respondWithCaller(w, r, "This is a protected route")
}

// Dashboard handles GET /api/dashboard.
func (h *DemoHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.respondWithCaller(w, r, "Welcome to your dashboard")
}

// Admin handles GET /api/admin.
func (h *DemoHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.respondWithCaller(w, r, "Welcome, admin")
}

// Student handles GET /api/student.
func (h *DemoHandler) Student(w http.ResponseWriter, r *http.Request) {
	h.respondWithCaller(w, r, "Welcome, student")
}

// Profile handles GET /api/profile and returns the caller's stored record.
func (h *DemoHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, ok := getAuthenticatedUser(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), caller.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}
