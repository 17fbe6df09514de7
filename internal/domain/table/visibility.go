package table

import (
	"fmt"

	"github.com/okian/trackboard/internal/domain/schema"
)

// Visibility is the show/hide state of the columns offered in the filter
// panel. Every column starts visible.
type Visibility struct {
	hidden [schema.Count]bool
}

// Toggle flips the hidden flag of col and returns the new value.
func (v *Visibility) Toggle(col int) (bool, error) {
	c, ok := schema.Lookup(col)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	if !c.Hideable {
		return false, fmt.Errorf("%w: %s", ErrNotHideable, c.Field)
	}
	v.hidden[col] = !v.hidden[col]
	return v.hidden[col], nil
}

// Hidden reports whether col is hidden.
func (v *Visibility) Hidden(col int) bool {
	if col < 0 || col >= schema.Count {
		return false
	}
	return v.hidden[col]
}

// HiddenColumns lists hidden column indices in table order.
func (v *Visibility) HiddenColumns() []int {
	out := []int{}
	for i, h := range v.hidden {
		if h {
			out = append(out, i)
		}
	}
	return out
}

// Reset shows every column again.
func (v *Visibility) Reset() { v.hidden = [schema.Count]bool{} }
