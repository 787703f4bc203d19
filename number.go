package cton

import (
	"math"
	"strconv"
)

// fastFloatString renders f with the shortest decimal string that
// round-trips back to the same float64, using Go's own float formatting
// machinery. It may return scientific notation for very large or very
// small magnitudes; callers fall back to precise mode in that case.
func fastFloatString(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// nonFinite reports whether f is NaN or +/-Inf; these encode as null per
// the normalization rule in the format's number grammar.
func nonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
