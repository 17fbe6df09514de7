// Package schema is the single definition of the results table columns.
//
// Rendering, sorting, validation and persistence all read column positions,
// value kinds and labels from here instead of repeating positional literals.
package schema

import "fmt"

// Kind classifies how a column's text is interpreted.
type Kind int

const (
	// KindString columns hold free text without digits (name, country).
	KindString Kind = iota
	// KindInt columns hold non-negative integers (age, appearances, medals).
	KindInt
	// KindFloat columns hold decimal seconds (time).
	KindFloat
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Placeholder is the value substituted for invalid input of this kind.
func (k Kind) Placeholder() string {
	switch k {
	case KindInt:
		return "0"
	case KindFloat:
		return "0.0"
	default:
		return "-"
	}
}

// Column describes one table column.
type Column struct {
	Index    int
	Field    string // storage key inside a row object
	Label    string // header text
	Kind     Kind
	Hideable bool // offered in the show/hide panel
}

// Column indices.
const (
	Name = iota
	Age
	Time
	Appearances
	Medals
	Country
)

// Count is the number of fields in every row record.
const Count = 6

var columns = [Count]Column{
	{Index: Name, Field: "name", Label: "Name", Kind: KindString},
	{Index: Age, Field: "age", Label: "Age", Kind: KindInt, Hideable: true},
	{Index: Time, Field: "time", Label: "Time", Kind: KindFloat},
	{Index: Appearances, Field: "appearances", Label: "Appearances", Kind: KindInt, Hideable: true},
	{Index: Medals, Field: "medals", Label: "Medals", Kind: KindInt, Hideable: true},
	{Index: Country, Field: "country", Label: "Country", Kind: KindString, Hideable: true},
}

// Columns returns all columns in table order.
func Columns() []Column {
	out := make([]Column, Count)
	copy(out, columns[:])
	return out
}

// Lookup returns the column at index i.
func Lookup(i int) (Column, bool) {
	if i < 0 || i >= Count {
		return Column{}, false
	}
	return columns[i], true
}

// ByField returns the column stored under field.
func ByField(field string) (Column, bool) {
	for _, c := range columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// Hideable returns the columns offered in the visibility panel.
func Hideable() []Column {
	var out []Column
	for _, c := range columns {
		if c.Hideable {
			out = append(out, c)
		}
	}
	return out
}

// PlaceholderRow returns the values of the row created when a table has no rows.
func PlaceholderRow() [Count]string {
	var v [Count]string
	for i, c := range columns {
		v[i] = c.Kind.Placeholder()
	}
	return v
}
