// Package sorter orders row records by a column, using the comparison the
// column's kind calls for: collation for text, numeric for ages, counts and
// times.
package sorter

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/schema"
	"github.com/okian/trackboard/internal/domain/validate"
)

// ErrUnknownColumn is returned for a column index outside the schema.
var ErrUnknownColumn = errors.New("unknown sort column")

// Direction multiplies the base comparison.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// String returns the header attribute value: "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseDirection accepts "asc" and "desc".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q", s)
}

// collationTag is the locale used for text columns.
var collationTag = language.English

// Sort returns a copy of rows ordered by column col. The sort is stable, so
// rows with equal keys keep their relative order.
func Sort(rows []model.Row, col int, dir Direction) ([]model.Row, error) {
	c, ok := schema.Lookup(col)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	if dir != Descending {
		dir = Ascending
	}
	out := model.CloneRows(rows)
	cmp := comparator(c)
	sort.SliceStable(out, func(i, j int) bool {
		return int(dir)*cmp(out[i].Value(col), out[j].Value(col)) < 0
	})
	return out, nil
}

// comparator returns the base ascending comparison for column c.
// Collators keep scratch buffers, so each sort gets its own.
func comparator(c schema.Column) func(a, b string) int {
	switch c.Kind {
	case schema.KindInt:
		return numeric(validate.ParseInt)
	case schema.KindFloat:
		return numeric(validate.ParseFloat)
	default:
		coll := collate.New(collationTag)
		return coll.CompareString
	}
}

// numeric compares parsed values. A value that does not parse is neither
// less nor greater than anything and compares equal.
func numeric(parse func(string) (float64, bool)) func(a, b string) int {
	return func(a, b string) int {
		v1, _ := parse(a)
		v2, _ := parse(b)
		switch {
		case v1 < v2:
			return -1
		case v1 > v2:
			return 1
		}
		return 0
	}
}
