package table_test

import (
	"errors"
	"testing"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/schema"
	"github.com/okian/trackboard/internal/domain/sorter"
	"github.com/okian/trackboard/internal/domain/stats"
	"github.com/okian/trackboard/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func restored() *table.Table {
	return table.Restore(model.Session{
		Caption:          "100m Sprint",
		NumberOfAthletes: 3,
		SetupComplete:    true,
		Rows: []model.Row{
			{Name: "Bolt", Age: "22", Time: "9.69", Appearances: "3", Medals: "3", Country: "Jamaica"},
			{Name: "Gay", Age: "26", Time: "9.71", Appearances: "4", Medals: "2", Country: "USA"},
			{Name: "Powell", Age: "27", Time: "9.84", Appearances: "5", Medals: "1", Country: "Jamaica"},
		},
	})
}

func names(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestSetup(t *testing.T) {
	Convey("Given a table awaiting input", t, func() {
		tbl := table.New()
		So(tbl.State(), ShouldEqual, table.AwaitingInput)
		So(tbl.Summary(), ShouldResemble, stats.Empty)

		Convey("When the placeholder sport is submitted", func() {
			err := tbl.Setup(table.SetupInput{Sport: "-", Athletes: "4"}, table.SetupRules{})

			Convey("Then it stays awaiting input", func() {
				So(errors.Is(err, table.ErrInvalidSport), ShouldBeTrue)
				So(tbl.State(), ShouldEqual, table.AwaitingInput)
			})
		})

		Convey("When the athlete count is not positive", func() {
			for _, n := range []string{"0", "-2", "abc", ""} {
				err := tbl.Setup(table.SetupInput{Sport: "Marathon", Athletes: n}, table.SetupRules{})
				So(errors.Is(err, table.ErrInvalidAthletes), ShouldBeTrue)
			}
			So(tbl.State(), ShouldEqual, table.AwaitingInput)
		})

		Convey("When the athlete count exceeds the configured cap", func() {
			err := tbl.Setup(table.SetupInput{Sport: "Marathon", Athletes: "51"}, table.SetupRules{MaxAthletes: 50})
			So(errors.Is(err, table.ErrInvalidAthletes), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "at most 50")
			So(tbl.State(), ShouldEqual, table.AwaitingInput)
		})

		Convey("When no cap is configured", func() {
			n, err := table.ValidateSetup(table.SetupInput{Sport: "Marathon", Athletes: "250000"}, table.SetupRules{})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 250000)

			n, err = table.ValidateSetup(table.SetupInput{Sport: "Marathon", Athletes: "50"}, table.SetupRules{MaxAthletes: 50})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 50)
		})

		Convey("When the sport is not among the offered options", func() {
			err := tbl.Setup(table.SetupInput{Sport: "Curling", Athletes: "2"}, table.SetupRules{Sports: []string{"100m Sprint"}})
			So(errors.Is(err, table.ErrInvalidSport), ShouldBeTrue)
		})

		Convey("When a valid submission arrives", func() {
			err := tbl.Setup(table.SetupInput{Sport: "400m", Athletes: "3"}, table.SetupRules{Sports: []string{"100m Sprint", "400m"}})

			Convey("Then the table is seeded with placeholder rows", func() {
				So(err, ShouldBeNil)
				So(tbl.State(), ShouldEqual, table.Initialized)
				s := tbl.Session()
				So(s.Caption, ShouldEqual, "400m")
				So(s.NumberOfAthletes, ShouldEqual, 3)
				So(s.SetupComplete, ShouldBeTrue)
				So(len(s.Rows), ShouldEqual, 3)
				So(s.Rows[0], ShouldResemble, model.BlankRow())
			})

			Convey("And a second submission is rejected", func() {
				err := tbl.Setup(table.SetupInput{Sport: "400m", Athletes: "5"}, table.SetupRules{})
				So(errors.Is(err, table.ErrAlreadyInitialized), ShouldBeTrue)
				So(tbl.Len(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given operations before setup", t, func() {
		tbl := table.New()
		So(errors.Is(tbl.Duplicate(0), table.ErrNotInitialized), ShouldBeTrue)
		_, err := tbl.Sort(0)
		So(errors.Is(err, table.ErrNotInitialized), ShouldBeTrue)
		_, err = tbl.ToggleColumn(schema.Age)
		So(errors.Is(err, table.ErrNotInitialized), ShouldBeTrue)
	})
}

func TestRestore(t *testing.T) {
	Convey("Given a persisted session without rows", t, func() {
		tbl := table.Restore(model.Session{Caption: "Relay", SetupComplete: true})

		Convey("Then a single placeholder row is created", func() {
			So(tbl.Len(), ShouldEqual, 1)
			So(tbl.Rows()[0], ShouldResemble, model.PlaceholderRow())
			So(tbl.Summary(), ShouldResemble, stats.Summary{Best: "0.00", Worst: "0.00", Average: "0.00"})
		})
	})
}

func TestRowActions(t *testing.T) {
	Convey("Given a restored table", t, func() {
		tbl := restored()

		Convey("When duplicating a row", func() {
			So(tbl.Duplicate(0), ShouldBeNil)

			Convey("Then the copy sits directly below the original", func() {
				So(names(tbl.Rows()), ShouldResemble, []string{"Bolt", "Bolt", "Gay", "Powell"})
			})
		})

		Convey("When duplicating the last row", func() {
			So(tbl.Duplicate(2), ShouldBeNil)
			So(names(tbl.Rows()), ShouldResemble, []string{"Bolt", "Gay", "Powell", "Powell"})
		})

		Convey("When deleting a row while several exist", func() {
			So(tbl.Delete(1), ShouldBeNil)

			Convey("Then the row is removed and the summary follows", func() {
				So(names(tbl.Rows()), ShouldResemble, []string{"Bolt", "Powell"})
				So(tbl.Summary().Worst, ShouldEqual, "9.84")
			})
		})

		Convey("When deleting down to the last row", func() {
			So(tbl.Delete(0), ShouldBeNil)
			So(tbl.Delete(0), ShouldBeNil)
			err := tbl.Delete(0)

			Convey("Then the last row is kept", func() {
				So(errors.Is(err, table.ErrLastRow), ShouldBeTrue)
				So(names(tbl.Rows()), ShouldResemble, []string{"Powell"})
			})
		})

		Convey("When the row index is out of range", func() {
			So(errors.Is(tbl.Delete(3), table.ErrRowOutOfRange), ShouldBeTrue)
			So(errors.Is(tbl.Duplicate(-1), table.ErrRowOutOfRange), ShouldBeTrue)
		})

		Convey("When a copy of the rows is changed", func() {
			rows := tbl.Rows()
			rows[0].Name = "Changed"
			So(tbl.Rows()[0].Name, ShouldEqual, "Bolt")
		})
	})
}

func TestEdit(t *testing.T) {
	Convey("Given a restored table", t, func() {
		tbl := restored()

		Convey("When editing a time with a valid value", func() {
			stored, coerced, err := tbl.Edit(0, schema.Time, "9.58")

			Convey("Then it is stored and the summary is recomputed", func() {
				So(err, ShouldBeNil)
				So(coerced, ShouldBeFalse)
				So(stored, ShouldEqual, "9.58")
				So(tbl.Summary().Best, ShouldEqual, "9.58")
			})
		})

		Convey("When editing with invalid values", func() {
			age, c1, _ := tbl.Edit(0, schema.Age, "abc")
			name, c2, _ := tbl.Edit(1, schema.Name, "42")
			tm, c3, _ := tbl.Edit(2, schema.Time, "x")

			Convey("Then each is coerced to its placeholder", func() {
				So(age, ShouldEqual, "0")
				So(name, ShouldEqual, "-")
				So(tm, ShouldEqual, "0.0")
				So(c1 && c2 && c3, ShouldBeTrue)
				rows := tbl.Rows()
				So(rows[0].Age, ShouldEqual, "0")
				So(rows[1].Name, ShouldEqual, "-")
				So(rows[2].Time, ShouldEqual, "0.0")
			})
		})

		Convey("When the column is unknown", func() {
			_, _, err := tbl.Edit(0, 9, "x")
			So(errors.Is(err, table.ErrUnknownColumn), ShouldBeTrue)
		})
	})
}

func TestSortAndVisibility(t *testing.T) {
	Convey("Given a restored table", t, func() {
		tbl := restored()

		Convey("When the time header is activated twice", func() {
			first, err1 := tbl.Sort(schema.Time)
			afterFirst := names(tbl.Rows())
			second, err2 := tbl.Sort(schema.Time)

			Convey("Then rows sort ascending and then descending", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldEqual, sorter.Ascending)
				So(second, ShouldEqual, sorter.Descending)
				So(afterFirst, ShouldResemble, []string{"Bolt", "Gay", "Powell"})
				So(names(tbl.Rows()), ShouldResemble, []string{"Powell", "Gay", "Bolt"})
			})

			Convey("And only the time header is active", func() {
				for _, h := range tbl.Headers() {
					So(h.Active, ShouldEqual, h.Column.Index == schema.Time)
				}
			})
		})

		Convey("When sorting by name after time", func() {
			_, _ = tbl.Sort(schema.Time)
			_, _ = tbl.Sort(schema.Name)

			Convey("Then the time header remembers its next direction", func() {
				headers := tbl.Headers()
				So(headers[schema.Time].Order, ShouldEqual, sorter.Descending)
				So(headers[schema.Time].Active, ShouldBeFalse)
				So(headers[schema.Name].Active, ShouldBeTrue)
			})

			Convey("And a view reset forgets it", func() {
				tbl.ResetView()
				So(tbl.Headers()[schema.Time].Order, ShouldEqual, sorter.Ascending)
			})
		})

		Convey("When sorting does not change the row count or summary", func() {
			before := tbl.Summary()
			_, err := tbl.Sort(schema.Country)
			So(err, ShouldBeNil)
			So(tbl.Len(), ShouldEqual, 3)
			So(tbl.Summary(), ShouldResemble, before)
		})

		Convey("When toggling a hideable column", func() {
			hidden, err := tbl.ToggleColumn(schema.Medals)

			Convey("Then it is hidden until toggled again", func() {
				So(err, ShouldBeNil)
				So(hidden, ShouldBeTrue)
				So(tbl.HiddenColumns(), ShouldResemble, []int{schema.Medals})
				So(tbl.Headers()[schema.Medals].Hidden, ShouldBeTrue)

				hidden, err = tbl.ToggleColumn(schema.Medals)
				So(err, ShouldBeNil)
				So(hidden, ShouldBeFalse)
				So(tbl.HiddenColumns(), ShouldBeEmpty)
			})
		})

		Convey("When toggling a column the panel does not offer", func() {
			_, err := tbl.ToggleColumn(schema.Name)
			So(errors.Is(err, table.ErrNotHideable), ShouldBeTrue)
			_, err = tbl.ToggleColumn(12)
			So(errors.Is(err, table.ErrUnknownColumn), ShouldBeTrue)
		})
	})
}

func TestImport(t *testing.T) {
	Convey("Given a table with state", t, func() {
		tbl := restored()
		_, _ = tbl.Sort(schema.Age)

		Convey("When rows are imported", func() {
			tbl.Import("Indoor 60m", []model.Row{{Name: "Coleman", Time: "6.34"}})

			Convey("Then the session is replaced and the view reset", func() {
				s := tbl.Session()
				So(s.Caption, ShouldEqual, "Indoor 60m")
				So(s.NumberOfAthletes, ShouldEqual, 1)
				So(s.SetupComplete, ShouldBeTrue)
				So(names(s.Rows), ShouldResemble, []string{"Coleman"})
				So(tbl.Headers()[schema.Age].Active, ShouldBeFalse)
			})
		})
	})
}

func TestClone(t *testing.T) {
	Convey("Given a clone of a sorted table", t, func() {
		tbl := restored()
		_, _ = tbl.Sort(schema.Time)
		_, _ = tbl.ToggleColumn(schema.Age)
		c := tbl.Clone()

		Convey("When the original changes", func() {
			So(tbl.Delete(0), ShouldBeNil)
			_, _ = tbl.Sort(schema.Time)
			_, _ = tbl.ToggleColumn(schema.Age)

			Convey("Then the clone keeps its state", func() {
				So(c.Len(), ShouldEqual, 3)
				So(c.Headers()[schema.Time].Order, ShouldEqual, sorter.Descending)
				So(c.HiddenColumns(), ShouldResemble, []int{schema.Age})
			})
		})
	})
}
