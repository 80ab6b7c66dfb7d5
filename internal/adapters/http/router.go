// Package http provides the inbound HTTP adapter: routing and server
// lifecycle.
package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/mutations/internal/adapters/http/dto"
	"github.com/jsamuelsen11/mutations/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/mutations/internal/domain"
)

// NewRouter registers every route. Middleware applies to all routes in the
// order given.
func NewRouter(
	mutationHandler *handlers.MutationHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteErrorResponse(w, r, fmt.Errorf("no route for %s: %w", r.URL.Path, domain.ErrNotFound))
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/mutations", mutationHandler.List)
		r.Get("/mutations/{name}", mutationHandler.Describe)
		r.Post("/mutations/{name}/run", mutationHandler.Run)
		r.Post("/mutations/{name}/validate", mutationHandler.Validate)

		r.Post("/batch", mutationHandler.Batch)
	})

	return r
}
