package cton

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// safeKeyRE matches the grammar's SAFE_KEY_CHAR+ class.
var safeKeyRE = regexp.MustCompile(`^[0-9A-Za-z_.:\-]+$`)

// numericLikeRE matches strings that would be misread as a number if
// left unquoted, used to decide whether a string needs quoting on encode.
var numericLikeRE = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// integerTokenRE matches tokens the decoder converts to Integer.
var integerTokenRE = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

// floatTokenRE matches tokens the decoder converts to Decimal.
var floatTokenRE = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var reservedLiterals = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// isSafeKeyChar reports membership in SAFE_KEY_CHAR = [0-9A-Za-z_.:-].
func isSafeKeyChar(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b == '_' || b == '.' || b == ':' || b == '-':
		return true
	}
	return false
}

// isSafeKeyStart reports membership in SAFE_KEY_START, the subset of
// SAFE_KEY_CHAR the key-boundary heuristic is allowed to anchor on. Digits
// are excluded so that a numeric scalar is never mistaken for a key.
func isSafeKeyStart(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b == '_' || b == '.' || b == ':' || b == '-':
		return true
	}
	return false
}

// isTerminator reports membership in the scalar TERMINATOR set: comma,
// semicolon, the three closers, whitespace, and the three openers.
func isTerminator(b byte) bool {
	switch b {
	case ',', ';', ')', ']', '}', '(', '[', '{':
		return true
	}
	return isWhitespace(b)
}

// isValidKey reports whether s is a legal, non-empty CTON key.
func isValidKey(s string) bool {
	return s != "" && safeKeyRE.MatchString(s)
}

// isNumericLike reports whether s would be misread as a number if left
// unquoted.
func isNumericLike(s string) bool {
	return numericLikeRE.MatchString(s)
}

// isSafeToken reports whether s can be written as a bare, unquoted scalar
// token.
func isSafeToken(s string) bool {
	if s == "" {
		return false
	}
	if !safeKeyRE.MatchString(s) {
		return false
	}
	if reservedLiterals[s] {
		return false
	}
	if isNumericLike(s) {
		return false
	}
	return true
}

// DecimalMode selects how the encoder renders a finite real number.
type DecimalMode int

const (
	// DecimalFast uses the host's shortest round-trip float formatting,
	// falling back to DecimalPrecise only if that result is scientific.
	DecimalFast DecimalMode = iota
	// DecimalPrecise always expands the value through arbitrary-precision
	// decimal arithmetic to a full fixed-point representation.
	DecimalPrecise
)

func (m DecimalMode) String() string {
	switch m {
	case DecimalFast:
		return "fast"
	case DecimalPrecise:
		return "precise"
	default:
		return "invalid"
	}
}

func (m DecimalMode) valid() bool {
	return m == DecimalFast || m == DecimalPrecise
}

// normalizeDecimalText applies the shared canonicalization rules to a
// non-scientific decimal string produced by either formatting mode: strip
// a leading +, collapse an all-zero magnitude (with any sign and
// fractional part) to "0", and otherwise strip trailing fractional zeros
// and a dangling decimal point.
func normalizeDecimalText(s string) string {
	s = strings.TrimPrefix(s, "+")
	neg := strings.HasPrefix(s, "-")
	mag := strings.TrimPrefix(s, "-")
	if isAllZero(mag) {
		return "0"
	}
	if i := strings.IndexByte(mag, '.'); i >= 0 {
		mag = strings.TrimRight(mag, "0")
		mag = strings.TrimSuffix(mag, ".")
	}
	if neg {
		return "-" + mag
	}
	return mag
}

func isAllZero(mag string) bool {
	for i := 0; i < len(mag); i++ {
		if mag[i] != '0' && mag[i] != '.' {
			return false
		}
	}
	return true
}

func isApdDecimal(v Value) bool {
	_, ok := v.(*apd.Decimal)
	return ok
}

// formatFloat renders f as a canonical CTON decimal, dispatching on mode.
// Non-finite values are the caller's responsibility to catch earlier;
// formatFloat assumes f is finite.
func formatFloat(f float64, mode DecimalMode) (string, error) {
	if mode == DecimalFast {
		s := fastFloatString(f)
		if !strings.ContainsAny(s, "eE") {
			return normalizeDecimalText(s), nil
		}
		// fall through to precise expansion
	}
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(f); err != nil {
		return "", &EncodeError{Msg: "failed to expand float to decimal: " + err.Error()}
	}
	return formatApdDecimal(d)
}

// formatApdDecimal renders an arbitrary-precision decimal in canonical
// fixed-point CTON form. The coefficient and exponent already stored on d
// are reproduced exactly; no rounding is applied.
func formatApdDecimal(d *apd.Decimal) (string, error) {
	if d.Form == apd.NaN || d.Form == apd.NaNSignaling || d.Form == apd.Infinite {
		return "null", nil
	}
	return normalizeDecimalText(d.Text('f')), nil
}
