package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the defaults apply", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "trackboard")
				So(manager.subsystem, ShouldEqual, "table")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.Enabled(), ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the metric names carry them", func() {
				manager.tableRows.Set(4)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_namespace_table_rows" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.Enabled(), ShouldBeFalse)
			})
		})

		Convey("When empty option values are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(0),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "trackboard")
				So(manager.subsystem, ShouldEqual, "table")
				So(manager.constLabels, ShouldBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager is rebuilt", t, func() {
		previous := GetRegistry()
		Reset(func() { Init() })

		Convey("When recorders are disabled", func() {
			m := Init(WithMetricsEnabled(false), WithRefreshInterval(time.Second))
			RecordAction("edit", OutcomeOK, 1)
			UpdateTableRows(9)

			Convey("Then nothing is recorded on the new registry", func() {
				So(Global(), ShouldEqual, m)
				So(GetRegistry(), ShouldNotEqual, previous)
				So(Global().RefreshInterval(), ShouldEqual, time.Second)
				So(testutil.ToFloat64(m.actions.WithLabelValues("edit", OutcomeOK)), ShouldEqual, 0)
				So(testutil.ToFloat64(m.tableRows), ShouldEqual, 0)
			})
		})

		Convey("When labels are configured", func() {
			m := Init(WithConstLabels(map[string]string{"site": "stadium"}))
			UpdateTableRows(3)

			Convey("Then the fresh registry exposes them", func() {
				So(testutil.ToFloat64(m.tableRows), ShouldEqual, 3)
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				So(families[0].GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "stadium")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		m := Global()

		Convey("When recording table actions", func() {
			before := testutil.ToFloat64(m.actions.WithLabelValues("delete", OutcomeRejected))
			RecordAction("delete", OutcomeRejected, 1.5)

			Convey("Then the labelled counter moves", func() {
				after := testutil.ToFloat64(m.actions.WithLabelValues("delete", OutcomeRejected))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording store operations", func() {
			before := testutil.ToFloat64(m.storeErrors.WithLabelValues("save_rows"))
			RecordStoreOperation("save_rows", 2, false)
			RecordStoreOperation("save_rows", 3, true)

			Convey("Then only failures are counted as errors", func() {
				after := testutil.ToFloat64(m.storeErrors.WithLabelValues("save_rows"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateTableRows(7)
			UpdateHiddenColumns(2)
			UpdateAssetsCached(5, 1024)

			Convey("Then they hold the latest values", func() {
				So(testutil.ToFloat64(m.tableRows), ShouldEqual, 7)
				So(testutil.ToFloat64(m.hiddenColumns), ShouldEqual, 2)
				So(testutil.ToFloat64(m.assetsCached), ShouldEqual, 5)
				So(testutil.ToFloat64(m.assetBytes), ShouldEqual, 1024)
			})
		})

		Convey("When recording the remaining counters", func() {
			So(func() {
				RecordCellCoerced("int")
				RecordSort("time", "asc")
				RecordSetupAttempt(OutcomeInvalid)
				RecordImport(OutcomeEmpty)
				RecordImportSkipped(2)
				RecordImportSkipped(0)
				RecordSessionLoad(OutcomeOK)
				RecordAssetRequest("hit")
				RecordHTTPRequest("/api/session", "GET", "200")
				RecordHTTPRequestDuration("/api/session", "GET", "200", 1.2)
				RecordErrorByComponent("store", "io")
				RecordErrorByEndpoint("/api/actions", "POST", "bad_request")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})
	})
}

func TestOutcome(t *testing.T) {
	Convey("Given errors from an action", t, func() {
		refused := errors.New("refused")

		So(Outcome(nil), ShouldEqual, OutcomeOK)
		So(Outcome(refused, refused), ShouldEqual, OutcomeRejected)
		So(Outcome(errors.New("disk full"), refused), ShouldEqual, OutcomeError)
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordAction("edit", OutcomeOK, float64(j))
					UpdateTableRows(n)
					RecordAssetRequest("miss")
				}
			}(i)
		}
		wg.Wait()

		Convey("Then the registry still gathers", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
