package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/trackboard/internal/adapters/kvstore"
	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/config"
	"github.com/okian/trackboard/pkg/logger"
	"github.com/okian/trackboard/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(store kvstore.Store) *service.Service {
	svc := service.New(service.WithStore(store), service.WithSports(config.DefaultSportOptions()))
	convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
	return svc
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("TRACKBOARD_ADDR", ":8181")
			_ = os.Setenv("TRACKBOARD_STORE_BACKEND", "memory")
			defer func() {
				_ = os.Unsetenv("TRACKBOARD_ADDR")
				_ = os.Unsetenv("TRACKBOARD_STORE_BACKEND")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendMemory)
			})
		})

		convey.Convey("When building the router", func() {
			cfg := config.New(context.Background())
			svc := startedService(kvstore.NewMemory())
			h, err := newRouter(cfg, svc, "test-version")
			convey.So(err, convey.ShouldBeNil)

			get := func(target string) *httptest.ResponseRecorder {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
				return rec
			}

			convey.Convey("Then every surface is mounted", func() {
				convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api/session").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/static/app.js").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/sw.js").Body.String(), convey.ShouldContainSubstring, "trackboard-test-version")
				convey.So(get("/static/nope.png").Code, convey.ShouldEqual, http.StatusNotFound)
			})

			convey.Convey("Then a form setup is visible through the API", func() {
				form := url.Values{"sport": {"400m"}, "athletes": {"4"}}
				req := httptest.NewRequest(http.MethodPost, "/setup", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				convey.So(rec.Code, convey.ShouldEqual, http.StatusSeeOther)

				view := svc.View(context.Background())
				convey.So(view.Caption, convey.ShouldEqual, "400m")
				convey.So(len(view.Rows), convey.ShouldEqual, 4)
				convey.So(get("/api/session").Body.String(), convey.ShouldContainSubstring, `"caption":"400m"`)
			})
		})
	})
}

func TestRestart(t *testing.T) {
	convey.Convey("Given a file backed store", t, func() {
		path := filepath.Join(t.TempDir(), "session.json")
		store, err := kvstore.Open(context.Background(), kvstore.Params{Backend: kvstore.BackendFile, Path: path})
		convey.So(err, convey.ShouldBeNil)
		svc := startedService(store)

		cfg := config.New(context.Background())
		h, err := newRouter(cfg, svc, "v1")
		convey.So(err, convey.ShouldBeNil)

		body := `{"sport":"Marathon","athletes":"2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/setup", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
		svc.Stop()

		convey.Convey("When the process starts again", func() {
			reopened, err := kvstore.Open(context.Background(), kvstore.Params{Backend: kvstore.BackendFile, Path: path})
			convey.So(err, convey.ShouldBeNil)
			again := startedService(reopened)
			defer again.Stop()

			convey.Convey("Then the session is restored", func() {
				view := again.View(context.Background())
				convey.So(view.Initialized, convey.ShouldBeTrue)
				convey.So(view.Caption, convey.ShouldEqual, "Marathon")
				convey.So(len(view.Rows), convey.ShouldEqual, 2)
			})
		})
	})
}

func TestConfigureMetrics(t *testing.T) {
	convey.Convey("Given metrics settings in the config", t, func() {
		cfg := config.New(context.Background())
		cfg.MetricsNamespace = "meet"
		cfg.MetricsRefreshInterval = 2 * time.Second
		cfg.MetricsLabels = map[string]string{"site": "stadium"}
		convey.Reset(func() { configureMetrics(config.New(context.Background())) })

		m := configureMetrics(cfg)

		convey.Convey("Then the global manager follows them", func() {
			convey.So(metrics.Global(), convey.ShouldEqual, m)
			convey.So(m.RefreshInterval(), convey.ShouldEqual, 2*time.Second)
			convey.So(m.Enabled(), convey.ShouldBeTrue)

			metrics.UpdateTableRows(2)
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)
			var found bool
			for _, f := range families {
				if f.GetName() == "meet_table_rows" {
					found = true
					convey.So(f.GetMetric()[0].GetGauge().GetValue(), convey.ShouldEqual, 2)
				}
			}
			convey.So(found, convey.ShouldBeTrue)
		})

		convey.Convey("Then the health endpoint serves the new registry", func() {
			h, err := newRouter(cfg, startedService(kvstore.NewMemory()), "v1")
			convey.So(err, convey.ShouldBeNil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, `meet_table_rows{site="stadium"}`)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics update", func() {
			svc := startedService(kvstore.NewMemory())
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			svc := startedService(kvstore.NewMemory())
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{}, 2)
			go func() { startSystemMetricsUpdater(ctx); done <- struct{}{} }()
			go func() { startServiceMetricsUpdater(ctx, svc, 5*time.Millisecond); done <- struct{}{} }()
			time.Sleep(20 * time.Millisecond)
			cancel()

			convey.Convey("Then the updaters return", func() {
				for i := 0; i < 2; i++ {
					select {
					case <-done:
					case <-time.After(time.Second):
						t.Fatal("metrics updater did not stop")
					}
				}
			})
		})
	})
}
