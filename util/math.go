package util

import (
	"math"
	"strconv"
	"strings"
)

// Percent rescales a fraction in [0,1] to a percentage.
func Percent(fraction float64) float64 { return fraction * 100 }

// PercentChange returns the relative change from base to current as a
// percentage. The second value is false when base is zero.
func PercentChange(base, current float64) (float64, bool) {
	if base == 0 {
		return 0, false
	}

	return (current - base) / math.Abs(base) * 100, true
}

// FormatFloat renders v with the shortest representation that round
// trips, always keeping a fractional part for integral values ("95.0")
// and switching to exponent notation for very large or very small
// magnitudes.
func FormatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}

	return out
}
