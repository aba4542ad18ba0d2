package pricing

import "strings"

// UnitMultiplier converts a line's physical quantity into the unit its price is
// denominated in. Matching is case-insensitive and by substring, checked in order:
// ton, kg, meter (or exactly "m"), piece/pcs/pc. Whitespace is not trimmed, so a
// blank unit is unrecognised rather than empty.
func UnitMultiplier(unitType string, item LineItem, weightKg float64) float64 {
	normalized := strings.ToLower(unitType)
	quantity := float64(item.Quantity)

	switch {
	case normalized == "":
		if weightKg > 0 {
			return weightKg / 1000
		}
		return quantity
	case strings.Contains(normalized, "ton"):
		return weightKg / 1000
	case strings.Contains(normalized, "kg"):
		return weightKg
	case strings.Contains(normalized, "meter") || normalized == "m":
		return item.LengthM * quantity
	case strings.Contains(normalized, "piece"),
		strings.Contains(normalized, "pcs"),
		strings.Contains(normalized, "pc"):
		return quantity
	}

	if weightKg != 0 {
		return weightKg
	}
	return quantity
}
