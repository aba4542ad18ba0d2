package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Amount converts a computed value into a decimal rounded to 2 places for display
// and persistence. Computation itself never rounds. Non-finite values become zero.
func Amount(v float64) decimal.Decimal {
	if !isFinite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	f, _ := Amount(v).Float64()
	return f
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
