package htmlimport

import "errors"

// Sentinel kinds for import errors.
var (
	ErrNoTable = errors.New(`no table element with class "uomTrack" found`)
	ErrParse   = errors.New("html parse failed")
)
