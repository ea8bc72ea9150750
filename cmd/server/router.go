package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// requestTimeout caps the time a handler may spend on one request.
const requestTimeout = 30 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	demoHandler := api.NewDemoHandler(app.userService, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.config.Auth.EnforceRoles, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Get("/test-db", healthHandler.TestDB)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Get("/filter", taskHandler.FilterTasks)
				r.Get("/search", taskHandler.SearchTasks)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Delete("/{id}", taskHandler.DeleteTask)
				r.Put("/{id}/status", taskHandler.UpdateTaskStatus)
				r.Put("/{id}/priority", taskHandler.UpdateTaskPriority)
			})

			r.Get("/protected", demoHandler.Protected)
			r.Get("/dashboard", demoHandler.Dashboard)
			r.Get("/profile", demoHandler.Profile)
			r.With(authMiddleware.RequireRole(domain.RoleAdmin)).Get("/admin", demoHandler.Admin)
			r.With(authMiddleware.RequireRole(domain.RoleStudent, domain.RoleAdmin)).Get("/student", demoHandler.Student)
		})
	})

	r.Get("/health", healthHandler.Health)

	return r
}
