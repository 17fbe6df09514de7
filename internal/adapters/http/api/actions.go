package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/trackboard/internal/app"
)

// ActionDependencies defines the action operation.
type ActionDependencies interface {
	Apply(ctx context.Context, a service.Action) (service.Result, error)
}

// actionRequest mirrors the OpenAPI schema for POST /api/actions.
type actionRequest struct {
	Action string `json:"action"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  string `json:"value"`
}

// ActionsHandler handles action requests.
type ActionsHandler struct {
	deps ActionDependencies
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps ActionDependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandleAction handles POST /api/actions requests.
func (h *ActionsHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.action"
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	tag, ok := service.ParseActionTag(req.Action)
	if !ok {
		err := fmt.Errorf("%w: %q", service.ErrUnknownAction, req.Action)
		writeError(w, http.StatusBadRequest, "invalid_action", Wrap(op, err))
		return
	}
	res, err := h.deps.Apply(r.Context(), service.Action{
		Tag:    tag,
		Row:    req.Row,
		Column: req.Column,
		Value:  req.Value,
	})
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
