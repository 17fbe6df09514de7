package trackctl

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrUsage           = errors.New("usage")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrSummaryMismatch = errors.New("summary mismatch")
)

// APIError is an error envelope returned by the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d %s: %s", e.Status, e.Code, e.Message)
}
