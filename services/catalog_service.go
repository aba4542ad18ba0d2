package services

import (
	"context"
	"fmt"

	"github.com/gulfsteel/steelstore-api/models"
	"github.com/gulfsteel/steelstore-api/pricing"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ListActiveCatalog returns the storefront catalog: active products, newest first,
// with only their active variants.
func ListActiveCatalog(ctx context.Context, db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	err := db.WithContext(ctx).
		Preload("Variants", "active = ?", true).
		Preload("Images").
		Where("active = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

// ListAllProducts returns every product with all variants and images for the admin console
func ListAllProducts(ctx context.Context, db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	err := db.WithContext(ctx).
		Preload("Variants", func(tx *gorm.DB) *gorm.DB { return tx.Order("diameter_mm ASC") }).
		Preload("Images").
		Order("created_at DESC").
		Order("id DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// ToPricingCatalog converts stored products into the snapshot the pricing engine reads
func ToPricingCatalog(products []models.Product) pricing.Catalog {
	return lo.Map(products, func(p models.Product, _ int) pricing.Product {
		out := pricing.Product{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Active:   p.Active,
			UnitType: p.UnitType,
			Variants: lo.Map(p.Variants, func(v models.ProductVariant, _ int) pricing.Variant {
				return pricing.Variant{
					ID:         v.ID,
					DiameterMm: v.DiameterMm,
					UnitType:   v.UnitType,
					PriceQR:    v.PriceQR.InexactFloat64(),
					Active:     v.Active,
				}
			}),
		}
		if p.PriceQR != nil {
			out.PriceQR = lo.ToPtr(p.PriceQR.InexactFloat64())
		}
		return out
	})
}

// LoadPricingCatalog reads the active catalog and converts it in one step
func LoadPricingCatalog(ctx context.Context, db *gorm.DB) (pricing.Catalog, error) {
	products, err := ListActiveCatalog(ctx, db)
	if err != nil {
		return nil, err
	}
	return ToPricingCatalog(products), nil
}
