package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/pkg/logger"
)

// ImportDependencies defines the import operation.
type ImportDependencies interface {
	Import(ctx context.Context, r io.Reader) (service.ImportResult, error)
}

// ImportHandler handles HTML import requests.
type ImportHandler struct {
	deps     ImportDependencies
	maxBytes int64
}

// NewImportHandler creates a new import handler accepting documents of at
// most maxBytes.
func NewImportHandler(deps ImportDependencies, maxBytes int64) *ImportHandler {
	return &ImportHandler{deps: deps, maxBytes: maxBytes}
}

// HandleImport handles POST /api/import requests. The body is an HTML
// document holding a table with class uomTrack.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import"
	id := uuid.NewString()
	log := logger.Named("api")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	log.Debug(r.Context(), "import received", logger.String("import_id", id), logger.Int("bytes", len(body)))

	res, err := h.deps.Import(r.Context(), bytes.NewReader(body))
	if err != nil {
		log.Warn(r.Context(), "import failed", logger.String("import_id", id), logger.Error(err))
		writeServiceError(w, Wrap(op, err))
		return
	}
	w.Header().Set("X-Import-Id", id)
	writeJSON(w, http.StatusOK, res)
}
