package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNotStarted    = errors.New("service not started")
)
