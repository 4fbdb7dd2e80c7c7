// internal/value/number.go
package value

import (
	"math"
	"strconv"
	"strings"
)

// maxExactInt is the largest magnitude at which a float64 still holds
// every integer exactly.
const maxExactInt = 1 << 53

// FormatNumber renders a number the way the engine stringifies: integral
// values print with no fraction, everything else as a minimal decimal.
// Integrality is detected explicitly rather than with a modulo, which
// misbehaves for very large doubles.
func FormatNumber(n float64) string {
	if n == math.Floor(n) && math.Abs(n) < maxExactInt && !math.IsInf(n, 0) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ParseNumber reads text as a number. Leading and trailing space is
// tolerated; an empty string is not a number.
func ParseNumber(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
