package stats_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func rowsWithTimes(times ...string) []model.Row {
	rows := make([]model.Row, 0, len(times))
	for _, t := range times {
		rows = append(rows, model.Row{Name: "-", Time: t})
	}
	return rows
}

func TestSummarize(t *testing.T) {
	Convey("Given three recorded times", t, func() {
		summary := stats.Summarize(rowsWithTimes("10.5", "9.2", "11.0"))

		Convey("Then best, worst and average are formatted to two decimals", func() {
			So(summary.Best, ShouldEqual, "9.20")
			So(summary.Worst, ShouldEqual, "11.00")
			So(summary.Average, ShouldEqual, "10.23")
		})
	})

	Convey("Given no rows", t, func() {
		summary := stats.Summarize(nil)

		Convey("Then every statistic is the placeholder", func() {
			So(summary, ShouldResemble, stats.Empty)
			So(summary.Best, ShouldEqual, "-")
			So(summary.Worst, ShouldEqual, "-")
			So(summary.Average, ShouldEqual, "-")
		})
	})

	Convey("Given one time that is not a number", t, func() {
		summary := stats.Summarize(rowsWithTimes("10.5", "fast", "11.0"))

		Convey("Then it blanks every statistic", func() {
			So(summary, ShouldResemble, stats.Empty)
		})
	})

	Convey("Given freshly seeded rows", t, func() {
		summary := stats.Summarize([]model.Row{model.BlankRow(), model.BlankRow()})
		So(summary, ShouldResemble, stats.Empty)
	})

	Convey("Given an infinite time", t, func() {
		summary := stats.Summarize(rowsWithTimes("Infinity", "9.5"))
		So(summary.Best, ShouldEqual, "9.50")
		So(summary.Worst, ShouldEqual, "Infinity")
		So(summary.Average, ShouldEqual, "Infinity")
	})
}

func TestCompute_Ordering(t *testing.T) {
	Convey("Given many sets of numeric times", t, func() {
		sets := [][]float64{
			{1},
			{9.58, 9.63, 9.69, 9.72},
			{12.01, 10.004, 11.995, 10.005},
			{0, 0, 0},
			{43.03, 43.18, 43.29, 43.45, 43.49, 43.65},
		}
		for _, set := range sets {
			summary := stats.Compute(set)
			best, errB := strconv.ParseFloat(summary.Best, 64)
			worst, errW := strconv.ParseFloat(summary.Worst, 64)
			avg, errA := strconv.ParseFloat(summary.Average, 64)
			So(errB, ShouldBeNil)
			So(errW, ShouldBeNil)
			So(errA, ShouldBeNil)

			So(best, ShouldBeLessThanOrEqualTo, avg+0.005)
			So(avg, ShouldBeLessThanOrEqualTo, worst+0.005)
			for _, s := range []string{summary.Best, summary.Worst, summary.Average} {
				So(s[len(s)-3], ShouldEqual, byte('.'))
			}
		}
	})
}

func TestFormat(t *testing.T) {
	Convey("Given values to format", t, func() {
		So(stats.Format(9.2), ShouldEqual, "9.20")
		So(stats.Format(0), ShouldEqual, "0.00")
		So(stats.Format(math.NaN()), ShouldEqual, "-")
		So(stats.Format(math.Inf(-1)), ShouldEqual, "-Infinity")
		So(stats.Format(math.Copysign(0, -1)), ShouldEqual, "0.00")
		So(stats.Format(-0.001), ShouldEqual, "-0.00")
		So(stats.Format(0.5), ShouldEqual, "0.50")
	})

	Convey("Given exact ties between two hundredths", t, func() {
		Convey("Then they round up like toFixed", func() {
			So(stats.Format(0.125), ShouldEqual, "0.13")
			So(stats.Format(10.375), ShouldEqual, "10.38")
			So(stats.Format(-0.125), ShouldEqual, "-0.13")
			So(stats.Compute([]float64{0.125}).Best, ShouldEqual, "0.13")
			So(stats.Compute([]float64{10.25, 10.0}).Average, ShouldEqual, "10.13")
		})

		Convey("Then values just below a tie round down", func() {
			So(stats.Format(1.005), ShouldEqual, "1.00")
			So(stats.Format(2.675), ShouldEqual, "2.67")
		})
	})
}
