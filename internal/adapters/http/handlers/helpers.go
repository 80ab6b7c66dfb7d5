// Package handlers implements the HTTP endpoints on top of the service
// ports.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
)

// maxJSONBodyBytes caps request bodies.
const maxJSONBodyBytes = 1 << 20

// raiseParam is the query parameter that selects raise-on-error behavior.
const raiseParam = "raise_on_error"

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.Any("error", err),
		)
	}
}

// parseRaise reads ?raise_on_error. Absent means "use the service default".
func parseRaise(r *http.Request) (*bool, error) {
	raw := r.URL.Query().Get(raiseParam)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrInvalidRequest, raiseParam, raw)
	}
	return &v, nil
}

func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
}
