// Package site serves the results page, its forms and the static asset cache.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/domain/table"
	"github.com/okian/trackboard/pkg/logger"
)

const maxFormBytes = 64 << 10

// Pages is the part of the service the page handlers drive.
type Pages interface {
	View(ctx context.Context) service.View
	Setup(ctx context.Context, in table.SetupInput) (service.View, error)
	Apply(ctx context.Context, a service.Action) (service.Result, error)
}

// Handler serves the page routes.
type Handler struct {
	pages    Pages
	renderer *Renderer
	assets   *AssetCache
	logger   logger.Logger
}

// NewHandler creates the page handler.
func NewHandler(pages Pages, renderer *Renderer, assets *AssetCache) *Handler {
	return &Handler{pages: pages, renderer: renderer, assets: assets, logger: logger.Named("site")}
}

// Register mounts the page, form and asset routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get(PagePath, h.handlePage)
	r.Post("/setup", h.handleSetup)
	r.Post("/actions", h.handleAction)
	r.Get(ServiceWorkerPath, h.assets.ServeHTTP)
	r.Get(staticPrefix+"*", h.assets.ServeHTTP)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, Page{View: h.pages.View(r.Context())})
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrBadForm, err), Page{})
		return
	}
	in := table.SetupInput{Sport: r.PostForm.Get("sport"), Athletes: r.PostForm.Get("athletes")}
	if _, err := h.pages.Setup(r.Context(), in); err != nil {
		// The modal stays open with the sport kept and the count cleared.
		sport := in.Sport
		if sport == table.SportPlaceholder {
			sport = ""
		}
		h.fail(w, r, err, Page{Sport: sport})
		return
	}
	http.Redirect(w, r, PagePath, http.StatusSeeOther)
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrBadForm, err), Page{})
		return
	}
	a, err := parseAction(r)
	if err != nil {
		h.fail(w, r, err, Page{})
		return
	}
	if _, err := h.pages.Apply(r.Context(), a); err != nil {
		h.fail(w, r, err, Page{})
		return
	}
	http.Redirect(w, r, PagePath, http.StatusSeeOther)
}

// parseAction reads either a button command "tag:n" or the explicit
// action, row, column and value fields.
func parseAction(r *http.Request) (service.Action, error) {
	if cmd := r.PostForm.Get("cmd"); cmd != "" {
		name, arg, ok := strings.Cut(cmd, ":")
		if !ok {
			return service.Action{}, fmt.Errorf("%w: command %q", ErrBadForm, cmd)
		}
		tag, known := service.ParseActionTag(name)
		if !known {
			return service.Action{}, fmt.Errorf("%w: %q", service.ErrUnknownAction, name)
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return service.Action{}, fmt.Errorf("%w: command %q", ErrBadForm, cmd)
		}
		a := service.Action{Tag: tag}
		switch tag {
		case service.ActionSort, service.ActionToggleColumn:
			a.Column = n
		default:
			a.Row = n
		}
		return a, nil
	}

	tag, known := service.ParseActionTag(r.PostForm.Get("action"))
	if !known {
		return service.Action{}, fmt.Errorf("%w: %q", service.ErrUnknownAction, r.PostForm.Get("action"))
	}
	a := service.Action{Tag: tag, Value: r.PostForm.Get("value")}
	var err error
	if a.Row, err = formInt(r, "row"); err != nil {
		return service.Action{}, err
	}
	if a.Column, err = formInt(r, "column"); err != nil {
		return service.Action{}, err
	}
	return a, nil
}

func formInt(r *http.Request, key string) (int, error) {
	v := r.PostForm.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadForm, key, v)
	}
	return n, nil
}

// fail re-renders the page with the error message and the status the error
// maps to.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, p Page) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "page action failed", logger.Error(err))
	} else {
		h.logger.Debug(r.Context(), "page action rejected", logger.Error(err))
	}
	p.View = h.pages.View(r.Context())
	p.Message = err.Error()
	h.render(w, r, status, p)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, p Page) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, p); err != nil {
		h.logger.Error(r.Context(), "render failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func statusOf(err error) int {
	if errors.Is(err, ErrBadForm) {
		return http.StatusBadRequest
	}
	switch service.Classify(err) {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case service.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
