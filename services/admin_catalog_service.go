package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"slices"
	"strings"

	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// ProductInput holds the editable fields of a product
type ProductInput struct {
	Name        string
	Slug        string
	Description *string
	Category    string
	Active      bool
	PriceQR     *decimal.Decimal
	UnitType    *string
}

// VariantInput holds the editable fields of a variant
type VariantInput struct {
	DiameterMm *int
	UnitType   string
	PriceQR    decimal.Decimal
	StockQty   *int
	Grade      string
	Active     bool
}

// Slugify lowercases name and joins its words with dashes
func Slugify(name string) string {
	return strings.Trim(slugInvalidChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// SaveProduct creates a product when id is 0 and updates it otherwise
func SaveProduct(ctx context.Context, db *gorm.DB, id uint, input ProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	category := lo.CoalesceOrEmpty(input.Category, models.CategoryRebar)
	if !slices.Contains(models.Categories, category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	slug := lo.CoalesceOrEmpty(Slugify(input.Slug), Slugify(input.Name))
	if slug == "" {
		return nil, fmt.Errorf("%w: product slug is empty", ErrValidation)
	}

	product := &models.Product{}
	if id != 0 {
		if err := db.WithContext(ctx).First(product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Slug = slug
	product.Description = input.Description
	product.Category = category
	product.Active = input.Active
	product.PriceQR = input.PriceQR
	product.UnitType = lo.EmptyableToPtr(strings.TrimSpace(lo.FromPtr(input.UnitType)))

	if err := db.WithContext(ctx).Omit("Variants", "Images").Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: slug %q is already used", ErrConflict, slug)
		}
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product with its variants and images. Image objects
// are removed from storage after the rows are gone.
func DeleteProduct(ctx context.Context, db *gorm.DB, storage StorageService, id uint) error {
	var images []models.ProductImage
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", ErrNotFound, id)
			}
			return fmt.Errorf("failed to load product: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Find(&images).Error; err != nil {
			return fmt.Errorf("failed to load product images: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return fmt.Errorf("failed to delete product variants: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if storage != nil {
		for _, image := range images {
			if err := storage.Delete(ctx, image.StorageKey); err != nil {
				logger.Warn(ctx, "failed to delete product image object", logger.String("key", image.StorageKey), logger.ErrorF(err))
			}
		}
	}
	return nil
}

// SaveVariant creates a variant under productID when variantID is 0, otherwise
// updates the variant in place
func SaveVariant(ctx context.Context, db *gorm.DB, productID, variantID uint, input VariantInput) (*models.ProductVariant, error) {
	if input.PriceQR.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	unitType := lo.CoalesceOrEmpty(strings.ToLower(strings.TrimSpace(input.UnitType)), "ton")
	if !lo.Contains(models.UnitTypes, unitType) {
		return nil, fmt.Errorf("%w: unit type must be one of %s", ErrValidation, strings.Join(models.UnitTypes, ", "))
	}

	variant := &models.ProductVariant{}
	if variantID != 0 {
		if err := db.WithContext(ctx).First(variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: variant %d", ErrNotFound, variantID)
			}
			return nil, fmt.Errorf("failed to load variant: %w", err)
		}
	} else {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		variant.ProductID = productID
	}

	variant.DiameterMm = input.DiameterMm
	variant.UnitType = unitType
	variant.PriceQR = input.PriceQR.Round(2)
	variant.StockQty = input.StockQty
	variant.Grade = lo.CoalesceOrEmpty(input.Grade, models.DefaultGrade)
	variant.Active = input.Active

	if err := db.WithContext(ctx).Save(variant).Error; err != nil {
		return nil, fmt.Errorf("failed to save variant: %w", err)
	}
	return variant, nil
}

// DeleteVariant removes a variant
func DeleteVariant(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&models.ProductVariant{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete variant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: variant %d", ErrNotFound, id)
	}
	return nil
}

// UploadProductImage stores a product photo under product-images/<productID>/ and
// records its public URL
func UploadProductImage(ctx context.Context, db *gorm.DB, storage StorageService, productID uint, fileHeader *multipart.FileHeader) (*models.ProductImage, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}

	key := ObjectKey(PrefixProductImages, productID, fileHeader.Filename)
	if _, err := UploadFileHeader(ctx, storage, key, fileHeader); err != nil {
		return nil, err
	}

	image := &models.ProductImage{
		ProductID:  productID,
		ImageURL:   storage.PublicURL(key),
		StorageKey: key,
	}
	if err := db.WithContext(ctx).Create(image).Error; err != nil {
		if delErr := storage.Delete(ctx, key); delErr != nil {
			logger.Warn(ctx, "failed to remove orphaned image", logger.String("key", key), logger.ErrorF(delErr))
		}
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	return image, nil
}

// SetPrimaryImage makes one of the product's images its primary image
func SetPrimaryImage(ctx context.Context, db *gorm.DB, productID, imageID uint) (*models.Product, error) {
	var image models.ProductImage
	err := db.WithContext(ctx).Where("id = ? AND product_id = ?", imageID, productID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: image %d of product %d", ErrNotFound, imageID, productID)
		}
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	var product models.Product
	if err := db.WithContext(ctx).First(&product, productID).Error; err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if err := db.WithContext(ctx).Model(&product).Update("primary_image_url", image.ImageURL).Error; err != nil {
		return nil, fmt.Errorf("failed to set primary image: %w", err)
	}
	product.PrimaryImageURL = lo.ToPtr(image.ImageURL)
	return &product, nil
}

// DeleteProductImage removes the stored object, then the row. A product using
// the image as its primary image is cleared.
func DeleteProductImage(ctx context.Context, db *gorm.DB, storage StorageService, imageID uint) error {
	var image models.ProductImage
	if err := db.WithContext(ctx).First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: image %d", ErrNotFound, imageID)
		}
		return fmt.Errorf("failed to load image: %w", err)
	}

	if storage != nil {
		if err := storage.Delete(ctx, image.StorageKey); err != nil {
			logger.Warn(ctx, "failed to delete image object", logger.String("key", image.StorageKey), logger.ErrorF(err))
		}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&image).Error; err != nil {
			return fmt.Errorf("failed to delete image: %w", err)
		}
		err := tx.Model(&models.Product{}).
			Where("id = ? AND primary_image_url = ?", image.ProductID, image.ImageURL).
			Update("primary_image_url", nil).Error
		if err != nil {
			return fmt.Errorf("failed to clear primary image: %w", err)
		}
		return nil
	})
}

// sampleDiameters are the rebar sizes seeded into an empty catalog
var sampleDiameters = []int{8, 10, 12, 14, 16, 18, 20, 22, 25, 32}

// SeedSampleProducts fills an empty catalog with a B500B rebar product and one
// ton-priced variant per common diameter. It reports whether anything was created.
func SeedSampleProducts(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rebar := models.Product{
			Name:        "Rebar B500B",
			Slug:        "rebar-b500b",
			Category:    models.CategoryRebar,
			Description: lo.ToPtr("Standard B500B reinforcement bars in multiple diameters."),
			Active:      true,
		}
		if err := tx.Create(&rebar).Error; err != nil {
			return fmt.Errorf("failed to create sample product: %w", err)
		}

		variants := lo.Map(sampleDiameters, func(diameter int, i int) models.ProductVariant {
			return models.ProductVariant{
				ProductID:  rebar.ID,
				DiameterMm: lo.ToPtr(diameter),
				UnitType:   "ton",
				PriceQR:    decimal.NewFromInt(int64(2350 + i*25)),
				StockQty:   lo.ToPtr(25),
				Grade:      models.DefaultGrade,
				Active:     true,
			}
		})
		if err := tx.Create(&variants).Error; err != nil {
			return fmt.Errorf("failed to create sample variants: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Info(ctx, "seeded sample products", logger.Int("variants", len(sampleDiameters)))
	return true, nil
}
