// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/domain/table"
)

// DefaultMaxImportBytes bounds an imported HTML document.
const DefaultMaxImportBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service.
type Dependencies interface {
	View(ctx context.Context) service.View
	Setup(ctx context.Context, in table.SetupInput) (service.View, error)
	Apply(ctx context.Context, a service.Action) (service.Result, error)
	Import(ctx context.Context, r io.Reader) (service.ImportResult, error)
	Reload(ctx context.Context) (service.View, error)
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	sessionHandler *SessionHandler
	setupHandler   *SetupHandler
	actionsHandler *ActionsHandler
	importHandler  *ImportHandler
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxImportBytes int64
}

// WithMaxImportBytes bounds the body of POST /api/import.
func WithMaxImportBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxImportBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxImportBytes: DefaultMaxImportBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		sessionHandler: NewSessionHandler(deps),
		setupHandler:   NewSetupHandler(deps),
		actionsHandler: NewActionsHandler(deps),
		importHandler:  NewImportHandler(deps, cfg.maxImportBytes),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", MetricsMiddleware(s.sessionHandler.HandleGetSession, "session"))
		r.Post("/reload", MetricsMiddleware(s.sessionHandler.HandleReload, "reload"))
		r.Post("/setup", MetricsMiddleware(s.setupHandler.HandleSetup, "setup"))
		r.Post("/actions", MetricsMiddleware(s.actionsHandler.HandleAction, "actions"))
		r.Post("/import", MetricsMiddleware(s.importHandler.HandleImport, "import"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusOf maps an error to its HTTP status and envelope code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	}
	switch service.Classify(err) {
	case service.KindInvalid:
		return http.StatusBadRequest, "invalid_action"
	case service.KindConflict:
		return http.StatusConflict, "conflict"
	case service.KindUnprocessable:
		return http.StatusUnprocessableEntity, "unprocessable"
	case service.KindUnavailable:
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
