package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseInt reads the longest integer prefix of s the way browsers parse
// numeric form input: leading whitespace is skipped, an optional sign and
// 0x prefix are accepted, and trailing garbage is ignored. ok is false when
// no digit could be read.
func ParseInt(s string) (v float64, ok bool) {
	s = strings.TrimLeftFunc(s, isNumberSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	radix := 10.0
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		radix = 16
		s = s[2:]
	}
	digits := 0
	for _, r := range s {
		d, isDigit := digitValue(r)
		if !isDigit || float64(d) >= radix {
			break
		}
		v = v*radix + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN(), false
	}
	if neg {
		v = -v
	}
	return v, true
}

// ParseFloat reads the longest decimal prefix of s, including an optional
// exponent and the literal Infinity. ok is false when no number was read.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, isNumberSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	if strings.HasPrefix(s[end:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	mantissa := 0
	for end < len(s) && isASCIIDigit(s[end]) {
		end++
		mantissa++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isASCIIDigit(s[end]) {
			end++
			mantissa++
		}
	}
	if mantissa == 0 {
		return math.NaN(), false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		expDigits := exp
		for expDigits < len(s) && isASCIIDigit(s[expDigits]) {
			expDigits++
		}
		if expDigits > exp {
			end = expDigits
		}
	}
	prefix := strings.TrimSuffix(s[:end], ".")
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN(), false
	}
	return v, true
}

func isNumberSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}
