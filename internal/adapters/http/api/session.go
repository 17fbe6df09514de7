package api

import (
	"context"
	"net/http"

	service "github.com/okian/trackboard/internal/app"
)

// SessionDependencies defines the read and reload operations.
type SessionDependencies interface {
	View(ctx context.Context) service.View
	Reload(ctx context.Context) (service.View, error)
}

// SessionHandler handles session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleGetSession handles GET /api/session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
}

// HandleReload handles POST /api/reload requests. The stored session is
// read again and sort and visibility state start over.
func (h *SessionHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	view, err := h.deps.Reload(r.Context())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
