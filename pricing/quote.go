package pricing

import "github.com/samber/lo"

// PricedLine is a line item with everything derived from it.
type PricedLine struct {
	LineItem
	WeightKg    float64 `json:"weight_kg"`
	Resolved    bool    `json:"price_resolved"`
	ProductName string  `json:"product_name,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
	UnitType    string  `json:"unit_type"`
	Multiplier  float64 `json:"multiplier"`
	LineTotal   float64 `json:"line_total"`
}

// Summary is the full pricing of an order.
type Summary struct {
	Lines           []PricedLine `json:"lines"`
	TotalWeightKg   float64      `json:"total_weight_kg"`
	TotalWeightTons float64      `json:"total_weight_tons"`
	ProductsTotal   float64      `json:"products_total"`
	Fees            Fees         `json:"fees"`
	GrandTotal      float64      `json:"grand_total"`
	Currency        string       `json:"currency"`
}

// PriceLine weighs and prices a single line. An unresolved price costs zero.
func PriceLine(item LineItem, catalog Catalog) PricedLine {
	line := PricedLine{
		LineItem: item,
		WeightKg: Weight(item.DiameterMm, item.LengthM, item.Quantity),
	}

	quote, ok := ResolvePrice(item, catalog)
	line.Resolved = ok
	if ok {
		line.ProductName = quote.ProductName
		line.UnitPrice = quote.UnitPrice
		line.UnitType = quote.UnitType
	}
	line.Multiplier = UnitMultiplier(line.UnitType, item, line.WeightKg)
	line.LineTotal = line.UnitPrice * line.Multiplier
	return line
}

// Quote prices a whole order:
//
//	grandTotal = productsTotal + delivery + express + cutAndBend
//
// Nothing is rounded; use Rounded for display.
func Quote(items []LineItem, catalog Catalog, form FormState, cfg FeeConfig) Summary {
	lines := lo.Map(items, func(item LineItem, _ int) PricedLine {
		return PriceLine(item, catalog)
	})

	totalWeight := lo.SumBy(lines, func(l PricedLine) float64 { return l.WeightKg })
	productsTotal := lo.SumBy(lines, func(l PricedLine) float64 { return l.LineTotal })
	fees := ComposeFees(items, form, cfg)

	return Summary{
		Lines:           lines,
		TotalWeightKg:   totalWeight,
		TotalWeightTons: totalWeight / 1000,
		ProductsTotal:   productsTotal,
		Fees:            fees,
		GrandTotal:      productsTotal + fees.Total(),
		Currency:        Currency,
	}
}

// UnresolvedLines returns the indexes of lines that fell back to a zero price.
func (s Summary) UnresolvedLines() []int {
	var idx []int
	for i, l := range s.Lines {
		if !l.Resolved {
			idx = append(idx, i)
		}
	}
	return idx
}

// Finite reports whether the totals are representable. Huge inputs can
// overflow to Inf or NaN.
func (s Summary) Finite() bool {
	return isFinite(s.TotalWeightKg) && isFinite(s.ProductsTotal) && isFinite(s.GrandTotal)
}

// Rounded returns a copy with every amount and weight rounded to 2 dp.
func (s Summary) Rounded() Summary {
	out := s
	out.Lines = lo.Map(s.Lines, func(l PricedLine, _ int) PricedLine {
		l.WeightKg = Round2(l.WeightKg)
		l.LineTotal = Round2(l.LineTotal)
		return l
	})
	out.TotalWeightKg = Round2(s.TotalWeightKg)
	out.TotalWeightTons = Round2(s.TotalWeightTons)
	out.ProductsTotal = Round2(s.ProductsTotal)
	out.Fees = Fees{
		Delivery:   Round2(s.Fees.Delivery),
		Express:    Round2(s.Fees.Express),
		CutAndBend: Round2(s.Fees.CutAndBend),
	}
	out.GrandTotal = Round2(s.GrandTotal)
	return out
}
