package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/trackboard/internal/adapters/http/api"
	"github.com/okian/trackboard/internal/adapters/http/site"
	"github.com/okian/trackboard/internal/adapters/http/swagger"
	"github.com/okian/trackboard/internal/adapters/kvstore"
	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/config"
	"github.com/okian/trackboard/pkg/logger"
	"github.com/okian/trackboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// .env overrides the environment when present
	envLoaded := godotenv.Overload() == nil

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	configureMetrics(cfg)

	loggerInstance.Info(ctx, "configuration loaded",
		logger.String("addr", cfg.Addr),
		logger.String("store_backend", cfg.StoreBackend),
		logger.Bool("dotenv", envLoaded),
		logger.Bool("metrics_enabled", cfg.MetricsEnabled),
	)

	store, err := kvstore.Open(ctx, kvstore.Params{
		Backend: kvstore.Backend(cfg.StoreBackend),
		Path:    cfg.StorePath,
		DSN:     cfg.StoreDSN,
		Table:   cfg.StoreTable,
	})
	if err != nil {
		loggerInstance.Fatal(ctx, "failed to open store", logger.String("backend", cfg.StoreBackend), logger.Error(err))
	}

	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithStore(store),
		service.WithSports(cfg.SportOptions),
		service.WithMaxAthletes(cfg.MaxAthletes),
	)
	// A malformed stored session stops the process.
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	version := cfg.AssetCacheVersion
	if version == "" {
		version = uuid.NewString()
	}
	handler, err := newRouter(cfg, svc, version)
	if err != nil {
		loggerInstance.Fatal(ctx, "failed to build router", logger.Error(err))
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc, metrics.Global().RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("asset_version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// configureMetrics rebuilds the global metrics manager from cfg.
func configureMetrics(cfg *config.Config) *metrics.Manager {
	return metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithRefreshInterval(cfg.MetricsRefreshInterval),
		metrics.WithConstLabels(cfg.MetricsLabels),
	)
}

// newRouter mounts the page, API and docs routes.
func newRouter(cfg *config.Config, svc *service.Service, assetVersion string) (http.Handler, error) {
	renderer, err := site.NewRenderer(assetVersion)
	if err != nil {
		return nil, err
	}
	cache, err := site.Precache(assetVersion)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.AccessLog)
	r.Use(middleware.Recoverer)

	site.NewHandler(svc, renderer, cache).Register(r)
	swagger.Register(r)
	api.NewServer(svc, svc, api.WithMaxImportBytes(cfg.MaxImportBytes)).Register(r)
	return r, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the table gauges from the service stats.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if rows, ok := stats["rows"].(int); ok {
		metrics.UpdateTableRows(rows)
	}

	if hidden, ok := stats["hiddenColumns"].(int); ok {
		metrics.UpdateHiddenColumns(hidden)
	}
}
