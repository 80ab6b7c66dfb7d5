package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/mutations/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// HealthHandler serves the liveness and readiness probes. Liveness never
// consults the registry.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready: 200 when every registered checker is
// healthy, 503 otherwise. Each check is reported as "ok" or its error text.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ready, results := h.registry.Ready(r.Context())

	checks := make(map[string]string, len(results))
	for name, err := range results {
		checks[name] = statusOK
		if err != nil {
			checks[name] = err.Error()
		}
	}

	if !ready {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": statusNotReady, "checks": checks})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"status": statusReady, "checks": checks})
}
