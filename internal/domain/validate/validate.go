// Package validate classifies and coerces edited cell values.
//
// Validation never rejects an edit. An invalid value is silently replaced by
// the placeholder of its column kind: "-" for text, "0" for integers and
// "0.0" for times. Valid values are kept verbatim.
package validate

import (
	"strings"

	"github.com/okian/trackboard/internal/domain/schema"
)

// IsValidString reports whether v is non-blank and contains no digit.
func IsValidString(v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	return !strings.ContainsAny(v, "0123456789")
}

// IsValidInt reports whether an integer can be read from v.
func IsValidInt(v string) bool {
	_, ok := ParseInt(v)
	return ok
}

// IsValidFloat reports whether a decimal number can be read from v.
func IsValidFloat(v string) bool {
	_, ok := ParseFloat(v)
	return ok
}

// IsValid reports whether v is acceptable for a column of the given kind.
func IsValid(kind schema.Kind, v string) bool {
	switch kind {
	case schema.KindString:
		return IsValidString(v)
	case schema.KindInt:
		return IsValidInt(v)
	case schema.KindFloat:
		return IsValidFloat(v)
	}
	return false
}

// Coerce returns the value to store for v and whether it was replaced.
func Coerce(kind schema.Kind, v string) (string, bool) {
	if IsValid(kind, v) {
		return v, false
	}
	return kind.Placeholder(), true
}

// CoerceColumn coerces v for the column at index col. Unknown columns
// leave v unchanged.
func CoerceColumn(col int, v string) (string, bool) {
	c, ok := schema.Lookup(col)
	if !ok {
		return v, false
	}
	return Coerce(c.Kind, v)
}
