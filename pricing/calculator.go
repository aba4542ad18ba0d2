package pricing

import "github.com/samber/lo"

// CalculatorItem is one row of the standalone weight calculator.
type CalculatorItem struct {
	DiameterMm int     `json:"diameter_mm"`
	LengthM    float64 `json:"length_m"`
	Quantity   int     `json:"quantity"`
}

// CalculatorLine is a calculator row with its derived figures, rounded to 2 dp.
type CalculatorLine struct {
	CalculatorItem
	WeightPerMeter float64 `json:"weight_per_meter"`
	WeightKg       float64 `json:"weight_kg"`
	TotalLengthM   float64 `json:"total_length_m"`
}

// CalculatorResult sums the calculator rows.
type CalculatorResult struct {
	Lines           []CalculatorLine `json:"lines"`
	TotalWeightKg   float64          `json:"total_weight_kg"`
	TotalWeightTons float64          `json:"total_weight_tons"`
	TotalPieces     int              `json:"total_pieces"`
	TotalLengthM    float64          `json:"total_length_m"`
}

// Calculate runs the weight calculator. Per-row figures are rounded before they
// are summed, matching what the calculator displays row by row.
func Calculate(items []CalculatorItem) CalculatorResult {
	lines := lo.Map(items, func(item CalculatorItem, _ int) CalculatorLine {
		wpm := calculatorWeightPerMeter(item.DiameterMm)
		return CalculatorLine{
			CalculatorItem: item,
			WeightPerMeter: wpm,
			WeightKg:       Round2(wpm * item.LengthM * float64(item.Quantity)),
			TotalLengthM:   Round2(item.LengthM * float64(item.Quantity)),
		}
	})

	totalWeight := lo.SumBy(lines, func(l CalculatorLine) float64 { return l.WeightKg })
	return CalculatorResult{
		Lines:           lines,
		TotalWeightKg:   Round2(totalWeight),
		TotalWeightTons: Round2(totalWeight / 1000),
		TotalPieces:     lo.SumBy(lines, func(l CalculatorLine) int { return l.Quantity }),
		TotalLengthM:    Round2(lo.SumBy(lines, func(l CalculatorLine) float64 { return l.TotalLengthM })),
	}
}
