package sorter

import (
	"fmt"

	"github.com/okian/trackboard/internal/domain/schema"
)

// Headers tracks the transient sort state of every column header: the
// direction its next activation will use and which header is active.
// It is not safe for concurrent use.
type Headers struct {
	orders [schema.Count]Direction
	active int
}

// NewHeaders returns headers with every column ascending and none active.
func NewHeaders() *Headers {
	h := &Headers{}
	h.Reset()
	return h
}

// Reset restores the state of a freshly loaded page.
func (h *Headers) Reset() {
	for i := range h.orders {
		h.orders[i] = Ascending
	}
	h.active = -1
}

// Activate marks col as the active header and returns the direction to sort
// with. The header's stored direction flips for its next activation; other
// headers keep theirs.
func (h *Headers) Activate(col int) (Direction, error) {
	if col < 0 || col >= schema.Count {
		return Ascending, fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	dir := h.orders[col]
	h.orders[col] = dir.Flip()
	h.active = col
	return dir, nil
}

// Order returns the direction the next activation of col will use.
func (h *Headers) Order(col int) Direction {
	if col < 0 || col >= schema.Count {
		return Ascending
	}
	return h.orders[col]
}

// Active returns the active header, if any.
func (h *Headers) Active() (int, bool) {
	return h.active, h.active >= 0
}
