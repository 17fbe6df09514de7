package kvstore

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrEmptyKey       = errors.New("empty key")
	ErrInvalidTable   = errors.New("invalid table name")
	ErrMissingPath    = errors.New("file store path must not be empty")
	ErrMissingDSN     = errors.New("store dsn must not be empty")
	ErrClosed         = errors.New("store closed")
)
