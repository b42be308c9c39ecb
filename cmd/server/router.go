package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/vox-api/internal/api"
	apiMiddleware "github.com/phrazzld/vox-api/internal/api/middleware"
	"github.com/phrazzld/vox-api/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	recognizeHandler := api.NewRecognizeHandler(
		app.registry,
		app.worker,
		app.config.Server.UploadDir,
		app.config.Server.MaxUploadBytes,
		app.logger,
	)
	statusHandler := api.NewStatusHandler(app.registry, app.logger)
	adminHandler := api.NewAdminHandler(app.credentials, app.logger)
	healthHandler := api.NewHealthHandler(app.config.LLM.ModelName)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.credentials)

	r.Route("/api", func(r chi.Router) {
		// Key-holder routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/recognize", recognizeHandler.Submit)
			r.Get("/status/{task_id}", statusHandler.GetStatus)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)
			r.Post("/admin/keys", adminHandler.CreateKey)
			r.Get("/admin/keys", adminHandler.ListKeys)
			r.Post("/admin/keys/toggle", adminHandler.ToggleKey)
		})
	})

	// Unauthenticated operational endpoints
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
