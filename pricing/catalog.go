package pricing

import "github.com/samber/lo"

// LineItem is one requested cut of rebar or catalog product.
type LineItem struct {
	DiameterMm int     `json:"diameter_mm"`
	LengthM    float64 `json:"length_m"`
	Quantity   int     `json:"quantity"`
	ShapeName  string  `json:"shape,omitempty"`
	// Unit is a display label only; pricing follows the resolved unit type.
	Unit string `json:"unit,omitempty"`
}

// Variant is a priced, unit-typed specialisation of a product, keyed by diameter.
type Variant struct {
	ID         uint
	DiameterMm *int
	UnitType   string
	PriceQR    float64
	Active     bool
}

// Product is a catalog snapshot entry. PriceQR and UnitType are the flat
// product-level fallback used when no variant matches.
type Product struct {
	ID       uint
	Name     string
	Category string
	Active   bool
	PriceQR  *float64
	UnitType *string
	Variants []Variant
}

// Catalog is an ordered product list; earlier products win ties.
type Catalog []Product

// PriceQuote is the outcome of a successful price lookup.
type PriceQuote struct {
	ProductID   uint
	ProductName string
	VariantID   uint
	UnitPrice   float64
	UnitType    string
}

func (v Variant) matches(diameterMm int) bool {
	return v.Active && v.DiameterMm != nil && *v.DiameterMm == diameterMm
}

func (c Catalog) byName(name string) (Product, bool) {
	if name == "" {
		return Product{}, false
	}
	return lo.Find([]Product(c), func(p Product) bool {
		return p.Active && p.Name == name
	})
}

func (c Catalog) byDiameter(diameterMm int) (Product, bool) {
	return lo.Find([]Product(c), func(p Product) bool {
		return p.Active && lo.ContainsBy(p.Variants, func(v Variant) bool { return v.matches(diameterMm) })
	})
}

// ResolvePrice finds the unit price for a line. The product is matched by exact
// name first, then by the first product carrying a variant of the line's diameter.
// Within the product the diameter variant wins over the flat product price.
// The boolean is false when no product resolves; callers decide what that costs.
func ResolvePrice(item LineItem, catalog Catalog) (PriceQuote, bool) {
	product, ok := catalog.byName(item.ShapeName)
	if !ok {
		product, ok = catalog.byDiameter(item.DiameterMm)
	}
	if !ok {
		return PriceQuote{}, false
	}

	quote := PriceQuote{ProductID: product.ID, ProductName: product.Name}
	if product.UnitType != nil {
		quote.UnitType = *product.UnitType
	}

	variant, found := lo.Find(product.Variants, func(v Variant) bool { return v.matches(item.DiameterMm) })
	if found {
		quote.VariantID = variant.ID
		quote.UnitPrice = variant.PriceQR
		if variant.UnitType != "" {
			quote.UnitType = variant.UnitType
		}
		return quote, true
	}

	if product.PriceQR != nil {
		quote.UnitPrice = *product.PriceQR
	}
	return quote, true
}
