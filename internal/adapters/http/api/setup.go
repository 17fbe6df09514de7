package api

import (
	"context"
	"net/http"

	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/domain/table"
)

// SetupDependencies defines the setup operation.
type SetupDependencies interface {
	Setup(ctx context.Context, in table.SetupInput) (service.View, error)
}

// setupRequest mirrors the OpenAPI schema for POST /api/setup. Athletes is
// text as typed into the form.
type setupRequest struct {
	Sport    string `json:"sport"`
	Athletes string `json:"athletes"`
}

// setupRejection echoes the form back with the count cleared.
type setupRejection struct {
	errorResponse
	Sport    string `json:"sport"`
	Athletes string `json:"athletes"`
}

// SetupHandler handles setup requests.
type SetupHandler struct {
	deps SetupDependencies
}

// NewSetupHandler creates a new setup handler.
func NewSetupHandler(deps SetupDependencies) *SetupHandler {
	return &SetupHandler{deps: deps}
}

// HandleSetup handles POST /api/setup requests.
func (h *SetupHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	const op = "api.setup"
	var req setupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.Setup(r.Context(), table.SetupInput(req))
	if err != nil {
		status, code := statusOf(err)
		if status != http.StatusUnprocessableEntity {
			writeError(w, status, code, Wrap(op, err))
			return
		}
		writeJSON(w, status, setupRejection{
			errorResponse: errorResponse{Code: code, Message: Wrap(op, err).Error()},
			Sport:         req.Sport,
		})
		return
	}
	writeJSON(w, http.StatusCreated, view)
}
