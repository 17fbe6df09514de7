package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/validate"
)

// SportPlaceholder is the dropdown option that means "nothing selected".
const SportPlaceholder = "-"

// SetupState is the lifecycle of the setup modal.
type SetupState int

const (
	// AwaitingInput shows the modal; no table exists.
	AwaitingInput SetupState = iota
	// Initialized hides the modal; the table exists and is persisted.
	Initialized
)

func (s SetupState) String() string {
	if s == Initialized {
		return "initialized"
	}
	return "awaiting-input"
}

// SetupInput is what the setup form submits.
type SetupInput struct {
	Sport    string
	Athletes string
}

// SetupRules are the deployment limits on a setup submission.
type SetupRules struct {
	// Sports, when non-empty, lists the only sports accepted.
	Sports []string
	// MaxAthletes caps the athlete count. Zero means no cap.
	MaxAthletes int
}

// ValidateSetup checks a setup submission and returns the athlete count.
func ValidateSetup(in SetupInput, rules SetupRules) (int, error) {
	sport := strings.TrimSpace(in.Sport)
	if sport == "" || sport == SportPlaceholder {
		return 0, ErrInvalidSport
	}
	if len(rules.Sports) > 0 && !contains(rules.Sports, in.Sport) {
		return 0, fmt.Errorf("%w: %q is not offered", ErrInvalidSport, in.Sport)
	}
	n, ok := validate.ParseInt(in.Athletes)
	if !ok || n < 1 || math.IsInf(n, 0) || n > math.MaxInt32 {
		return 0, ErrInvalidAthletes
	}
	if rules.MaxAthletes > 0 && n > float64(rules.MaxAthletes) {
		return 0, fmt.Errorf("%w: at most %d", ErrInvalidAthletes, rules.MaxAthletes)
	}
	return int(n), nil
}

// Setup creates the table from a setup submission: the caption is the sport
// and every seeded row holds placeholders. It fails once the table exists.
func (t *Table) Setup(in SetupInput, rules SetupRules) error {
	if t.State() == Initialized {
		return ErrAlreadyInitialized
	}
	n, err := ValidateSetup(in, rules)
	if err != nil {
		return err
	}
	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = model.BlankRow()
	}
	t.session = model.Session{
		Caption:          in.Sport,
		NumberOfAthletes: n,
		SetupComplete:    true,
		Rows:             rows,
	}
	t.ResetView()
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
