package models

import "github.com/shopspring/decimal"

func init() {
	// money is rendered as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every model for AutoMigrate, parents before children
func All() []interface{} {
	return []interface{}{
		&Product{},
		&ProductVariant{},
		&ProductImage{},
		&Setting{},
		&Order{},
		&OrderItem{},
		&OrderFile{},
		&QuoteRequest{},
		&QuoteRequestFile{},
		&ContactRequest{},
		&Profile{},
	}
}
