package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupFrontendRoutes wires public reads, authorized writes and the
// operational endpoints.
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, metrics http.Handler) {
	r.Get("/health", handlers.healthHandler.getHealth())
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	// Public reads; drafts need credentials
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.identify)

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/project/{slug}", handlers.projectHandler.getProjectBySlug())
		r.Get("/project/{slug}/related", handlers.projectHandler.getRelatedProjects())
		r.Get("/project/id/{projectID}", handlers.projectHandler.getProjectByID())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Post("/project", handlers.projectHandler.createProject())
		r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

		r.Get("/assets", handlers.assetHandler.listAssets())
		r.Post("/asset", handlers.assetHandler.uploadAsset())
	})
}
