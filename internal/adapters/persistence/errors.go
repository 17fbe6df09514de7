package persistence

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrMalformedSession = errors.New("malformed persisted session")
)
