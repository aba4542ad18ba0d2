package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories offered in the admin console
const (
	CategoryRebar       = "rebar"
	CategoryMesh        = "mesh"
	CategoryServices    = "services"
	CategoryAccessories = "accessories"
	CategoryCutBend     = "cut_bend"
)

// Categories lists the product categories in display order
var Categories = []string{CategoryRebar, CategoryMesh, CategoryServices, CategoryAccessories, CategoryCutBend}

// UnitTypes are the price units a variant may be saved with. Product unit types
// stay free text; pricing matches both by substring.
var UnitTypes = []string{"ton", "piece", "bundle", "sheet"}

// DefaultGrade is the steel grade assumed for new variants
const DefaultGrade = "B500B"

// Product represents a catalog entry
type Product struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	Slug            string           `gorm:"uniqueIndex;not null" json:"slug"`
	Description     *string          `gorm:"type:text" json:"description"`
	Category        string           `gorm:"not null;default:'rebar'" json:"category"`
	Active          bool             `gorm:"not null" json:"active"`
	PriceQR         *decimal.Decimal `gorm:"type:numeric(12,2)" json:"price_qr"` // flat price when no variant matches
	UnitType        *string          `json:"unit_type"`                          // unit of PriceQR
	PrimaryImageURL *string          `json:"primary_image_url"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID" json:"product_variants"`
	Images          []ProductImage   `gorm:"foreignKey:ProductID" json:"product_images"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductVariant is a priced specialisation of a product, keyed by diameter
type ProductVariant struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	DiameterMm *int            `json:"diameter_mm"` // nullable for non-bar products
	UnitType   string          `gorm:"not null;default:'ton'" json:"unit_type"`
	PriceQR    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_qr"`
	StockQty   *int            `json:"stock_qty"`
	Grade      string          `gorm:"not null;default:'B500B'" json:"grade"`
	Active     bool            `gorm:"not null" json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductImage is an uploaded product photo
type ProductImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	StorageKey string    `gorm:"not null" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the ProductImage model
func (ProductImage) TableName() string {
	return "product_images"
}
