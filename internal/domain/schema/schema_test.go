package schema

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestColumns(t *testing.T) {
	Convey("Given the column schema", t, func() {
		cols := Columns()

		Convey("Then it lists the six fields in storage order", func() {
			So(len(cols), ShouldEqual, Count)
			fields := make([]string, 0, len(cols))
			for i, c := range cols {
				So(c.Index, ShouldEqual, i)
				fields = append(fields, c.Field)
			}
			So(fields, ShouldResemble, []string{"name", "age", "time", "appearances", "medals", "country"})
		})

		Convey("Then kinds follow the comparison groups", func() {
			So(cols[Name].Kind, ShouldEqual, KindString)
			So(cols[Country].Kind, ShouldEqual, KindString)
			So(cols[Age].Kind, ShouldEqual, KindInt)
			So(cols[Appearances].Kind, ShouldEqual, KindInt)
			So(cols[Medals].Kind, ShouldEqual, KindInt)
			So(cols[Time].Kind, ShouldEqual, KindFloat)
		})

		Convey("Then the visibility panel offers age, appearances, medals and country", func() {
			var labels []string
			for _, c := range Hideable() {
				labels = append(labels, c.Field)
			}
			So(labels, ShouldResemble, []string{"age", "appearances", "medals", "country"})
		})

		Convey("Then mutating the returned slice does not leak", func() {
			cols[0].Label = "changed"
			c, ok := Lookup(Name)
			So(ok, ShouldBeTrue)
			So(c.Label, ShouldEqual, "Name")
		})
	})

	Convey("Given lookups", t, func() {
		_, ok := Lookup(Count)
		So(ok, ShouldBeFalse)
		c, ok := ByField("medals")
		So(ok, ShouldBeTrue)
		So(c.Index, ShouldEqual, Medals)
		_, ok = ByField("score")
		So(ok, ShouldBeFalse)
	})

	Convey("Given kind placeholders", t, func() {
		So(KindString.Placeholder(), ShouldEqual, "-")
		So(KindInt.Placeholder(), ShouldEqual, "0")
		So(KindFloat.Placeholder(), ShouldEqual, "0.0")
		So(PlaceholderRow(), ShouldResemble, [Count]string{"-", "0", "0.0", "0", "0", "-"})
		So(KindFloat.String(), ShouldEqual, "float")
	})
}
