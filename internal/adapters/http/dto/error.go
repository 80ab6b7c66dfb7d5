package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/mutations/internal/domain"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
)

// ErrorResponse is an RFC 9457 Problem Details body.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one failing input field.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// errInternal replaces the detail of unclassified errors so internals never
// reach clients.
var errInternal = errors.New("internal server error")

// NewErrorResponse classifies err and builds the problem body. Raised
// validation errors carry one ErrorDetail per field in schema order.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := StatusFor(err)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = errInternal.Error()
	}

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	}

	if errs, ok := mutation.FieldErrors(err); ok {
		resp.Errors = make([]ErrorDetail, len(errs))
		for i, fe := range errs {
			resp.Errors[i] = ErrorDetail{Location: "body." + fe.Field, Message: fe.Message}
		}
	}

	return resp
}

// WriteErrorResponse writes err as application/problem+json.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// StatusFor maps service errors to HTTP status codes. A passed deadline wins
// over the downstream failure it caused.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, mutation.ErrValidation), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
