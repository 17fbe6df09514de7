// Package table holds the live results table: the persisted session plus
// the transient page state (sort headers, hidden columns), and the
// operations a user performs on it.
//
// A Table is not safe for concurrent use; callers serialize access.
package table

import (
	"fmt"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/schema"
	"github.com/okian/trackboard/internal/domain/sorter"
	"github.com/okian/trackboard/internal/domain/stats"
	"github.com/okian/trackboard/internal/domain/validate"
)

// Table is a session and its view state.
type Table struct {
	session    model.Session
	headers    *sorter.Headers
	visibility Visibility
}

// New returns a table awaiting setup.
func New() *Table {
	return &Table{headers: sorter.NewHeaders()}
}

// Restore rebuilds a table from a persisted session. A session without rows
// gets a single placeholder row so there is always something to edit.
func Restore(s model.Session) *Table {
	t := New()
	s.Rows = model.CloneRows(s.Rows)
	if len(s.Rows) == 0 {
		s.Rows = []model.Row{model.PlaceholderRow()}
	}
	s.SetupComplete = true
	t.session = s
	return t
}

// Import replaces the session with rows read from an existing HTML table.
func (t *Table) Import(caption string, rows []model.Row) {
	restored := Restore(model.Session{
		Caption:          caption,
		NumberOfAthletes: len(rows),
		Rows:             rows,
	})
	t.session = restored.session
	t.ResetView()
}

// Clone returns an independent copy of the table, view state included.
func (t *Table) Clone() *Table {
	h := *t.headers
	return &Table{
		session:    t.Session(),
		headers:    &h,
		visibility: t.visibility,
	}
}

// State reports the setup lifecycle state.
func (t *Table) State() SetupState {
	if t.session.SetupComplete {
		return Initialized
	}
	return AwaitingInput
}

// Session returns a copy of the persisted state.
func (t *Table) Session() model.Session {
	s := t.session
	s.Rows = model.CloneRows(t.session.Rows)
	return s
}

// Rows returns a copy of the rows in display order.
func (t *Table) Rows() []model.Row { return model.CloneRows(t.session.Rows) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.session.Rows) }

// Summary computes the footer statistics.
func (t *Table) Summary() stats.Summary {
	if t.State() != Initialized {
		return stats.Empty
	}
	return stats.Summarize(t.session.Rows)
}

// Duplicate inserts a copy of row directly below it.
func (t *Table) Duplicate(row int) error {
	if err := t.checkRow(row); err != nil {
		return err
	}
	rows := make([]model.Row, 0, len(t.session.Rows)+1)
	rows = append(rows, t.session.Rows[:row+1]...)
	rows = append(rows, t.session.Rows[row])
	rows = append(rows, t.session.Rows[row+1:]...)
	t.session.Rows = rows
	return nil
}

// Delete removes row. The last remaining row cannot be deleted.
func (t *Table) Delete(row int) error {
	if err := t.checkRow(row); err != nil {
		return err
	}
	if len(t.session.Rows) < 2 {
		return ErrLastRow
	}
	t.session.Rows = append(t.session.Rows[:row:row], t.session.Rows[row+1:]...)
	return nil
}

// Edit stores value in the cell at (row, col) after validation. It returns
// the stored value and whether the input was replaced by a placeholder.
func (t *Table) Edit(row, col int, value string) (string, bool, error) {
	if err := t.checkRow(row); err != nil {
		return "", false, err
	}
	if _, ok := schema.Lookup(col); !ok {
		return "", false, fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	stored, coerced := validate.CoerceColumn(col, value)
	t.session.Rows[row] = t.session.Rows[row].WithValue(col, stored)
	return stored, coerced, nil
}

// Sort activates the header of col: rows are reordered with the header's
// current direction, which then flips. It returns the direction used.
func (t *Table) Sort(col int) (sorter.Direction, error) {
	if t.State() != Initialized {
		return sorter.Ascending, ErrNotInitialized
	}
	if _, ok := schema.Lookup(col); !ok {
		return sorter.Ascending, fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	dir := t.headers.Order(col)
	sorted, err := sorter.Sort(t.session.Rows, col, dir)
	if err != nil {
		return dir, err
	}
	if _, err := t.headers.Activate(col); err != nil {
		return dir, err
	}
	copy(t.session.Rows, sorted)
	return dir, nil
}

// ToggleColumn shows or hides a column and returns whether it is now hidden.
func (t *Table) ToggleColumn(col int) (bool, error) {
	if t.State() != Initialized {
		return false, ErrNotInitialized
	}
	return t.visibility.Toggle(col)
}

// ResetView restores the transient state of a freshly loaded page.
func (t *Table) ResetView() {
	t.headers.Reset()
	t.visibility.Reset()
}

// Header is the render state of one column header.
type Header struct {
	Column schema.Column
	Order  sorter.Direction
	Active bool
	Hidden bool
}

// Headers returns the state of every column header in table order.
func (t *Table) Headers() []Header {
	active, hasActive := t.headers.Active()
	out := make([]Header, 0, schema.Count)
	for _, c := range schema.Columns() {
		out = append(out, Header{
			Column: c,
			Order:  t.headers.Order(c.Index),
			Active: hasActive && active == c.Index,
			Hidden: t.visibility.Hidden(c.Index),
		})
	}
	return out
}

// HiddenColumns lists the hidden column indices.
func (t *Table) HiddenColumns() []int { return t.visibility.HiddenColumns() }

func (t *Table) checkRow(row int) error {
	if t.State() != Initialized {
		return ErrNotInitialized
	}
	if row < 0 || row >= len(t.session.Rows) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(t.session.Rows))
	}
	return nil
}
