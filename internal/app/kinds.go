package service

import (
	"errors"

	"github.com/okian/trackboard/internal/adapters/htmlimport"
	"github.com/okian/trackboard/internal/domain/table"
)

// Kind groups service errors by how a caller should answer them.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindInvalid
	KindConflict
	KindUnprocessable
	KindUnavailable
)

// Classify returns the kind of err.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, table.ErrInvalidSport),
		errors.Is(err, table.ErrInvalidAthletes),
		errors.Is(err, htmlimport.ErrNoTable),
		errors.Is(err, htmlimport.ErrParse):
		return KindUnprocessable
	case errors.Is(err, table.ErrAlreadyInitialized),
		errors.Is(err, table.ErrLastRow),
		errors.Is(err, table.ErrNotInitialized):
		return KindConflict
	case errors.Is(err, ErrUnknownAction),
		errors.Is(err, table.ErrRowOutOfRange),
		errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, table.ErrNotHideable):
		return KindInvalid
	case errors.Is(err, ErrNotStarted):
		return KindUnavailable
	default:
		return KindInternal
	}
}
