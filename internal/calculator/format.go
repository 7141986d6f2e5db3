package calculator

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	// DisplayDecimals is the number of fractional digits kept in fixed
	// notation.
	DisplayDecimals = 10

	smallThreshold = 1e-10
	largeThreshold = 1e10
)

// FormatNumber renders a finite result for display. Very small and very
// large magnitudes use exponential notation with six fractional digits;
// everything else is rounded to ten decimals with trailing zeros removed.
func FormatNumber(x float64) string {
	abs := math.Abs(x)
	switch {
	case x == 0:
		return "0"
	case math.IsNaN(x):
		// Never produced by a successful evaluation.
		return "NaN"
	}
	if abs < smallThreshold || abs >= largeThreshold {
		return strconv.FormatFloat(x, 'e', 6, 64)
	}
	// NewFromFloat yields the shortest decimal that round-trips, so rounding
	// happens on the decimal digits the user would see.
	rounded := decimal.NewFromFloat(x).Round(DisplayDecimals)
	if rounded.IsZero() {
		return "0"
	}
	return rounded.String()
}
