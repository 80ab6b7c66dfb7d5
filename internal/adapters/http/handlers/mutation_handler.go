package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/mutations/internal/adapters/http/dto"
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/platform/logging"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

// MutationHandler serves the /api/v1/mutations and /api/v1/batch routes.
type MutationHandler struct {
	svc ports.MutationService
}

// NewMutationHandler creates a MutationHandler.
func NewMutationHandler(svc ports.MutationService) *MutationHandler {
	return &MutationHandler{svc: svc}
}

// List handles GET /api/v1/mutations.
func (h *MutationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ToMutationListResponse(h.svc.List(r.Context())))
}

// Describe handles GET /api/v1/mutations/{name}.
func (h *MutationHandler) Describe(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Describe(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToMutationResponse(info))
}

// Run handles POST /api/v1/mutations/{name}/run. A result that failed
// validation is answered with 422 and the result body; a raised validation
// error with a 400 problem.
func (h *MutationHandler) Run(w http.ResponseWriter, r *http.Request) {
	name, args, raise, ok := h.decodeCall(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Run(r.Context(), name, args, raise)
	if err != nil {
		h.writeServiceError(w, r, "MutationHandler.Run", name, err)
		return
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, dto.ToRunResponse(res))
}

// Validate handles POST /api/v1/mutations/{name}/validate.
func (h *MutationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	name, args, raise, ok := h.decodeCall(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Validate(r.Context(), name, args, raise)
	if err != nil {
		h.writeServiceError(w, r, "MutationHandler.Validate", name, err)
		return
	}

	status := http.StatusOK
	if !res.IsValid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, dto.ToValidateResponse(res))
}

// Batch handles POST /api/v1/batch. The response is 200 whenever the batch
// itself was accepted; each item carries its own status.
func (h *MutationHandler) Batch(w http.ResponseWriter, r *http.Request) {
	raise, err := parseRaise(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	limitBody(w, r)
	req, err := dto.DecodeBatch(r.Body)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	batch := make([]ports.Invocation, len(req.Invocations))
	for i, inv := range req.Invocations {
		raw, err := dto.DecodeArgs(bytes.NewReader(inv.Args))
		if err != nil {
			dto.WriteErrorResponse(w, r, fmt.Errorf("invocation %d: %w", i, err))
			return
		}
		batch[i] = ports.Invocation{Mutation: inv.Mutation, Args: h.normalize(r, inv.Mutation, raw)}
	}

	outcomes, err := h.svc.RunBatch(r.Context(), batch, raise)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	resp := dto.BatchResponse{Results: make([]dto.BatchItemResponse, len(outcomes))}
	for i, o := range outcomes {
		item := dto.BatchItemResponse{Mutation: o.Mutation}
		switch {
		case o.Err != nil:
			problem := dto.NewErrorResponse(r, o.Err)
			item.Status, item.Error = problem.Status, &problem
		case o.Result.Success:
			run := dto.ToRunResponse(o.Result)
			item.Status, item.Result = http.StatusOK, &run
		default:
			run := dto.ToRunResponse(o.Result)
			item.Status, item.Result = http.StatusUnprocessableEntity, &run
		}
		if item.Status == http.StatusOK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
		resp.Results[i] = item
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// decodeCall extracts the name, normalized args and raise flag shared by
// run and validate. On failure it has already written the response.
func (h *MutationHandler) decodeCall(w http.ResponseWriter, r *http.Request) (string, mutation.Args, *bool, bool) {
	name := chi.URLParam(r, "name")

	raise, err := parseRaise(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return "", nil, nil, false
	}

	limitBody(w, r)
	raw, err := dto.DecodeArgs(r.Body)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return "", nil, nil, false
	}

	return name, h.normalize(r, name, raw), raise, true
}

// normalize converts JSON numbers using the mutation's schema. Unknown
// names are left for the service to reject.
func (h *MutationHandler) normalize(r *http.Request, name string, raw map[string]any) mutation.Args {
	info, err := h.svc.Describe(r.Context(), name)
	if err != nil {
		info = ports.MutationInfo{}
	}
	return dto.NormalizeArgs(raw, info)
}

func (h *MutationHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op, name string, err error) {
	if dto.StatusFor(err) >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "mutation call failed",
			slog.String("operation", op),
			slog.String("mutation", name),
			slog.Any("error", err),
		)
	}
	dto.WriteErrorResponse(w, r, err)
}
