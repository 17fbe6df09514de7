// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/trackboard/internal/adapters/htmlimport"
	"github.com/okian/trackboard/internal/adapters/kvstore"
	"github.com/okian/trackboard/internal/adapters/persistence"
	"github.com/okian/trackboard/internal/domain/table"
	"github.com/okian/trackboard/pkg/logger"
	"github.com/okian/trackboard/pkg/metrics"
)

// Service owns the live table. Every action runs under one lock so a
// mutation, the summary it changes and its persistence complete together.
type Service struct {
	mu sync.RWMutex

	store       kvstore.Store
	repo        *persistence.Repository
	table       *table.Table
	sports      []string
	maxAthletes int

	// State
	started   bool
	startedAt time.Time
	applied   map[ActionTag]int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the key-value store the session is persisted in.
func WithStore(store kvstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSports sets the events offered by the setup form. An empty list
// accepts any sport other than the placeholder.
func WithSports(sports []string) Option {
	return func(s *Service) {
		s.sports = append([]string(nil), sports...)
	}
}

// WithMaxAthletes caps the athlete count of a setup submission. Zero, the
// default, accepts any positive count.
func WithMaxAthletes(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxAthletes = n
		}
	}
}

// New constructs a new Service. Without WithStore the session lives in memory.
func New(opts ...Option) *Service {
	s := &Service{
		table:   table.New(),
		applied: make(map[ActionTag]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = kvstore.NewMemory()
	}
	s.repo = persistence.New(s.store)
	return s
}

// Start loads the persisted session. A malformed session is returned as an
// error wrapping persistence.ErrMalformedSession.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting trackboard service...")
	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "trackboard service started",
		logger.String("state", s.table.State().String()),
		logger.Int("rows", s.table.Len()),
		logger.Int("sports", len(s.sports)),
	)
	return nil
}

// Stop releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping trackboard service...")
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "trackboard service stopped")
}

// Reload re-reads the persisted session and resets the page state, as a
// browser reload would.
func (s *Service) Reload(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return View{}, ErrNotStarted
	}
	if err := s.loadLocked(ctx); err != nil {
		return View{}, err
	}
	s.logger.Info(ctx, "session reloaded", logger.Int("rows", s.table.Len()))
	return viewOf(s.table, s.sports), nil
}

func (s *Service) loadLocked(ctx context.Context) error {
	sess, found, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, persistence.ErrMalformedSession):
		metrics.RecordSessionLoad(metrics.OutcomeInvalid)
		return err
	case err != nil:
		metrics.RecordSessionLoad(metrics.OutcomeError)
		return err
	case !found:
		metrics.RecordSessionLoad(metrics.OutcomeEmpty)
		s.table = table.New()
		s.logger.Info(ctx, "no persisted session, awaiting setup")
	default:
		metrics.RecordSessionLoad(metrics.OutcomeOK)
		s.table = table.Restore(sess)
	}
	metrics.UpdateTableRows(s.table.Len())
	metrics.UpdateHiddenColumns(0)
	return nil
}

// View returns a snapshot of the table.
func (s *Service) View(_ context.Context) View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return viewOf(s.table, s.sports)
}

// Sports returns the configured setup options.
func (s *Service) Sports() []string {
	return append([]string(nil), s.sports...)
}

// Setup creates the table from a setup submission and persists every key.
// The table is only replaced once the session is stored.
func (s *Service) Setup(ctx context.Context, in table.SetupInput) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return View{}, ErrNotStarted
	}
	if s.table.State() == table.Initialized {
		metrics.RecordSetupAttempt(metrics.OutcomeRejected)
		return View{}, table.ErrAlreadyInitialized
	}

	next := table.New()
	rules := table.SetupRules{Sports: s.sports, MaxAthletes: s.maxAthletes}
	if err := next.Setup(in, rules); err != nil {
		metrics.RecordSetupAttempt(metrics.OutcomeInvalid)
		s.logger.Debug(ctx, "setup rejected",
			logger.String("sport", in.Sport),
			logger.String("athletes", in.Athletes),
			logger.Error(err),
		)
		return View{}, err
	}
	if err := s.repo.SaveSetup(ctx, next.Session()); err != nil {
		metrics.RecordSetupAttempt(metrics.OutcomeError)
		metrics.RecordErrorByComponent("store", "save_setup")
		s.logger.Error(ctx, "persisting setup failed", logger.Error(err))
		return View{}, err
	}

	s.table = next
	metrics.RecordSetupAttempt(metrics.OutcomeOK)
	metrics.UpdateTableRows(s.table.Len())
	metrics.UpdateHiddenColumns(0)
	s.logger.Info(ctx, "table created",
		logger.String("caption", in.Sport),
		logger.Int("athletes", s.table.Len()),
	)
	return viewOf(s.table, s.sports), nil
}

// Apply runs one action through the dispatch table: mutate, recompute the
// summary and persist the rows when the action changed them. A failed
// action or failed write leaves the table as it was.
func (s *Service) Apply(ctx context.Context, a Action) (Result, error) {
	start := time.Now()
	res, err := s.apply(ctx, a)
	metrics.RecordAction(string(a.Tag), metrics.Outcome(err,
		table.ErrLastRow,
		table.ErrNotInitialized,
		table.ErrRowOutOfRange,
		table.ErrUnknownColumn,
		table.ErrNotHideable,
		ErrUnknownAction,
	), float64(time.Since(start).Microseconds())/1000)
	return res, err
}

func (s *Service) apply(ctx context.Context, a Action) (Result, error) {
	h, ok := handlers[a.Tag]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Tag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return Result{}, ErrNotStarted
	}

	before := s.table.Clone()
	res := Result{Action: a.Tag}
	persist, err := h(s.table, a, &res)
	if err != nil {
		s.table = before
		s.logger.Debug(ctx, "action rejected",
			logger.String("action", string(a.Tag)),
			logger.Int("row", a.Row),
			logger.Int("column", a.Column),
			logger.Error(err),
		)
		return Result{}, err
	}
	if persist {
		if err := s.repo.SaveRows(ctx, s.table.Rows()); err != nil {
			s.table = before
			metrics.RecordErrorByComponent("store", "save_rows")
			s.logger.Error(ctx, "persisting rows failed",
				logger.String("action", string(a.Tag)),
				logger.Error(err),
			)
			return Result{}, err
		}
	}

	s.applied[a.Tag]++
	metrics.UpdateTableRows(s.table.Len())
	res.View = viewOf(s.table, s.sports)
	s.logger.Debug(ctx, "action applied",
		logger.String("action", string(a.Tag)),
		logger.Int("rows", s.table.Len()),
		logger.Bool("persisted", persist),
	)
	return res, nil
}

// ImportResult reports an HTML import.
type ImportResult struct {
	Caption string   `json:"caption"`
	Rows    int      `json:"rows"`
	Skipped []string `json:"skipped"`
	View    View     `json:"view"`
}

// Import replaces the session with the first uomTrack table of an HTML
// document and persists it.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	parsed, err := htmlimport.Parse(r)
	for _, tag := range parsed.Skipped {
		s.log().Error(ctx, `class "uomTrack" expected on a table element`,
			logger.String("element", tag),
		)
	}
	metrics.RecordImportSkipped(len(parsed.Skipped))
	if err != nil {
		if errors.Is(err, htmlimport.ErrNoTable) {
			metrics.RecordImport(metrics.OutcomeEmpty)
			s.log().Warn(ctx, "import found no uomTrack table")
		} else {
			metrics.RecordImport(metrics.OutcomeError)
		}
		return ImportResult{Skipped: parsed.Skipped}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ImportResult{}, ErrNotStarted
	}

	next := table.New()
	next.Import(parsed.Caption, parsed.Rows)
	if err := s.repo.SaveSetup(ctx, next.Session()); err != nil {
		metrics.RecordImport(metrics.OutcomeError)
		metrics.RecordErrorByComponent("store", "save_import")
		s.logger.Error(ctx, "persisting import failed", logger.Error(err))
		return ImportResult{}, err
	}

	s.table = next
	metrics.RecordImport(metrics.OutcomeOK)
	metrics.UpdateTableRows(s.table.Len())
	metrics.UpdateHiddenColumns(0)
	s.logger.Info(ctx, "table imported",
		logger.String("caption", parsed.Caption),
		logger.Int("rows", s.table.Len()),
		logger.Int("tables", parsed.Tables),
	)

	skipped := parsed.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	return ImportResult{
		Caption: parsed.Caption,
		Rows:    s.table.Len(),
		Skipped: skipped,
		View:    viewOf(s.table, s.sports),
	}, nil
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"state":         s.table.State().String(),
		"rows":          s.table.Len(),
		"hiddenColumns": len(s.table.HiddenColumns()),
		"sportOptions":  len(s.sports),
	}

	applied := make(map[string]int, len(s.applied))
	for tag, n := range s.applied {
		applied[string(tag)] = n
	}
	stats["actionsApplied"] = applied

	if s.started {
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
		summary := s.table.Summary()
		stats["best"] = summary.Best
		stats["worst"] = summary.Worst
		stats["average"] = summary.Average
		metrics.UpdateTableRows(s.table.Len())
	}

	return stats
}
