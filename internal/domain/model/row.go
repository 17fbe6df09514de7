// Package model contains domain models passed between layers.
package model

import "github.com/okian/trackboard/internal/domain/schema"

// Row is one athlete's entry. Every field is kept as text; numeric meaning is
// applied only when comparing or aggregating. Field order matches schema.
type Row struct {
	Name        string `json:"name"`
	Age         string `json:"age"`
	Time        string `json:"time"`
	Appearances string `json:"appearances"`
	Medals      string `json:"medals"`
	Country     string `json:"country"`
}

// RowFromValues builds a row from positional values.
func RowFromValues(v [schema.Count]string) Row {
	return Row{
		Name:        v[schema.Name],
		Age:         v[schema.Age],
		Time:        v[schema.Time],
		Appearances: v[schema.Appearances],
		Medals:      v[schema.Medals],
		Country:     v[schema.Country],
	}
}

// Values returns the row's fields in column order.
func (r Row) Values() [schema.Count]string {
	return [schema.Count]string{r.Name, r.Age, r.Time, r.Appearances, r.Medals, r.Country}
}

// Value returns the field at column index i, or "" for an unknown index.
func (r Row) Value(i int) string {
	if i < 0 || i >= schema.Count {
		return ""
	}
	return r.Values()[i]
}

// WithValue returns a copy of r with column i set to v.
func (r Row) WithValue(i int, v string) Row {
	if i < 0 || i >= schema.Count {
		return r
	}
	vals := r.Values()
	vals[i] = v
	return RowFromValues(vals)
}

// PlaceholderRow is the single row created for a table that has none.
func PlaceholderRow() Row {
	return RowFromValues(schema.PlaceholderRow())
}

// BlankRow is a freshly seeded row: every field holds "-".
func BlankRow() Row {
	var v [schema.Count]string
	for i := range v {
		v[i] = "-"
	}
	return RowFromValues(v)
}

// Session is the persisted unit: one created table.
type Session struct {
	Caption          string
	NumberOfAthletes int
	SetupComplete    bool
	Rows             []Row
}

// CloneRows returns a copy of rows safe to hand to callers.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
