package metrics

import (
	"errors"
)

// Outcome labels shared by the counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeEmpty    = "empty"
)

// Outcome maps an error to an outcome label. rejected lists the errors that
// count as a refused request instead of a failure.
func Outcome(err error, rejected ...error) string {
	if err == nil {
		return OutcomeOK
	}
	for _, r := range rejected {
		if errors.Is(err, r) {
			return OutcomeRejected
		}
	}
	return OutcomeError
}
