// Package pricing computes rebar weights and order totals for the manual order form.
//
// Everything here is a pure function over in-memory values. Lookups that cannot be
// resolved (an unknown diameter, a line with no matching product) degrade to zero
// rather than failing, so a total can always be produced.
package pricing

import "slices"

// Currency is the ISO code every amount in this package is denominated in.
const Currency = "QAR"

// StockBarLengthM is the mill length bars are supplied in. Anything shorter is a cut.
const StockBarLengthM = 12.0

// weightPerMeter holds B500B reinforcement bar weights in kg per linear meter.
var weightPerMeter = map[int]float64{
	8:  0.395,
	10: 0.617,
	12: 0.888,
	14: 1.21,
	16: 1.58,
	18: 2.00,
	20: 2.47,
	22: 2.98,
	25: 3.85,
	32: 6.31,
}

// 40mm bars are only offered by the weight calculator, never on the order form.
const calculatorOnlyDiameter = 40

const calculatorOnlyWeightPerMeter = 9.86

var orderDiameters = []int{8, 10, 12, 14, 16, 18, 20, 22, 25, 32}

// Diameters returns the bar diameters accepted on the order form, ascending.
func Diameters() []int {
	return slices.Clone(orderDiameters)
}

// CalculatorDiameters returns the diameters known to the weight calculator.
func CalculatorDiameters() []int {
	return append(Diameters(), calculatorOnlyDiameter)
}

// WeightPerMeter looks up the kg/m factor for a diameter. The second result reports
// whether the diameter is in the table.
func WeightPerMeter(diameterMm int) (float64, bool) {
	wpm, ok := weightPerMeter[diameterMm]
	return wpm, ok
}

// Weight returns the weight in kg of quantity bars of the given diameter and length.
// Diameters outside the table weigh nothing.
func Weight(diameterMm int, lengthM float64, quantity int) float64 {
	wpm, _ := WeightPerMeter(diameterMm)
	return wpm * lengthM * float64(quantity)
}

func calculatorWeightPerMeter(diameterMm int) float64 {
	if diameterMm == calculatorOnlyDiameter {
		return calculatorOnlyWeightPerMeter
	}
	wpm, _ := WeightPerMeter(diameterMm)
	return wpm
}
