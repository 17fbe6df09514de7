package trackctl

import (
	"io"
	"time"

	service "github.com/okian/trackboard/internal/app"
)

// Defaults for the global flags.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultTimeout = 10 * time.Second
	DefaultWorkers = 4
)

// Config holds the global flags of a trackctl invocation.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable debug logging
	Out     io.Writer     // Command output
}

// View is the table snapshot served by GET /api/session.
type View = service.View

// Result is the answer to POST /api/actions.
type Result = service.Result

// ImportResult is the answer to POST /api/import.
type ImportResult = service.ImportResult

// SeedStats counts the edits issued by seed.
type SeedStats struct {
	Rows      int
	Submitted int
	Failed    int
	Coerced   int
	Duration  time.Duration
}
