package table

import "errors"

// Sentinel kinds for table operations. These allow errors.Is from callers.
var (
	ErrNotInitialized     = errors.New("table not initialized")
	ErrAlreadyInitialized = errors.New("table already initialized")
	ErrLastRow            = errors.New("cannot delete the last remaining row")
	ErrRowOutOfRange      = errors.New("row out of range")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrNotHideable        = errors.New("column cannot be hidden")
	ErrInvalidSport       = errors.New("no sport selected")
	ErrInvalidAthletes    = errors.New("number of athletes must be a positive integer")
)
