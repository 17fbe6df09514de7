package htmlimport_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/trackboard/internal/adapters/htmlimport"
	"github.com/okian/trackboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const page = `<!doctype html>
<html><body>
<div class="uomTrack">not a table</div>
<table class="results uomTrack">
  <caption> 100m Sprint </caption>
  <thead><tr><th>Name</th><th>Age</th><th>Time</th><th>Apps</th><th>Medals</th><th>Country</th></tr></thead>
  <tbody>
    <tr><td>Bolt</td><td>22</td><td>9.69</td><td>3</td><td>3</td><td>Jamaica</td></tr>
    <tr><td>Gay</td><td>26</td><td>9.71</td></tr>
    <tr><td><input class="uom-field" value="Powell"></td><td>27</td><td>9.84</td><td>5</td><td>1</td><td>Jamaica</td><td>extra</td></tr>
  </tbody>
  <tfoot><tr><td>Best</td></tr></tfoot>
</table>
<table class="uomTrack"><caption>Second</caption></table>
</body></html>`

func TestParse(t *testing.T) {
	Convey("Given a document with uomTrack elements", t, func() {
		res, err := htmlimport.Parse(strings.NewReader(page))

		Convey("Then the first table is imported", func() {
			So(err, ShouldBeNil)
			So(res.Caption, ShouldEqual, "100m Sprint")
			So(res.Tables, ShouldEqual, 2)
			So(res.Skipped, ShouldResemble, []string{"div"})
			So(len(res.Rows), ShouldEqual, 3)
			So(res.Rows[0], ShouldResemble, model.Row{
				Name: "Bolt", Age: "22", Time: "9.69", Appearances: "3", Medals: "3", Country: "Jamaica",
			})
		})

		Convey("Then short rows are padded with placeholders", func() {
			So(res.Rows[1], ShouldResemble, model.Row{
				Name: "Gay", Age: "26", Time: "9.71", Appearances: "0", Medals: "0", Country: "-",
			})
		})

		Convey("Then input values are read and extra cells dropped", func() {
			So(res.Rows[2].Name, ShouldEqual, "Powell")
			So(res.Rows[2].Country, ShouldEqual, "Jamaica")
		})
	})

	Convey("Given a table without body rows", t, func() {
		res, err := htmlimport.Parse(strings.NewReader(`<table class="uomTrack"><caption>Relay</caption></table>`))
		So(err, ShouldBeNil)
		So(res.Caption, ShouldEqual, "Relay")
		So(res.Rows, ShouldBeEmpty)
	})

	Convey("Given a document without a uomTrack table", t, func() {
		res, err := htmlimport.Parse(strings.NewReader(`<p class="uomTrack">x</p><table><tr><td>1</td></tr></table>`))
		So(errors.Is(err, htmlimport.ErrNoTable), ShouldBeTrue)
		So(res.Skipped, ShouldResemble, []string{"p"})
	})
}
