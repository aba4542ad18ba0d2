package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/gulfsteel/steelstore-api/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const imageField = "image"

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description"`
	Category    string           `json:"category" binding:"omitempty,oneof=rebar mesh services accessories cut_bend"`
	Active      *bool            `json:"active"`
	PriceQR     *decimal.Decimal `json:"price_qr"`
	UnitType    *string          `json:"unit_type"`
}

// VariantRequest represents the request body for creating or updating a variant
type VariantRequest struct {
	DiameterMm *int            `json:"diameter_mm" binding:"omitempty,gt=0"`
	UnitType   string          `json:"unit_type"`
	PriceQR    decimal.Decimal `json:"price_qr"`
	StockQty   *int            `json:"stock_qty" binding:"omitempty,gte=0"`
	Grade      string          `json:"grade"`
	Active     *bool           `json:"active"`
}

// PrimaryImageRequest selects a product's primary image
type PrimaryImageRequest struct {
	ImageID uint `json:"image_id" binding:"required,gt=0"`
}

func (r ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		Active:      lo.FromPtrOr(r.Active, true),
		PriceQR:     r.PriceQR,
		UnitType:    r.UnitType,
	}
}

func (r VariantRequest) toInput() services.VariantInput {
	return services.VariantInput{
		DiameterMm: r.DiameterMm,
		UnitType:   r.UnitType,
		PriceQR:    r.PriceQR,
		StockQty:   r.StockQty,
		Grade:      r.Grade,
		Active:     lo.FromPtrOr(r.Active, true),
	}
}

// ListAdminProducts handles GET /api/v1/admin/products - every product, active or not
func ListAdminProducts(c *gin.Context) {
	products, err := services.ListAllProducts(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to load products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// CreateProduct handles POST /api/v1/admin/products
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product, err := services.SaveProduct(c.Request.Context(), config.GetDB(), 0, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Failed to save product")
		return
	}
	respondOK(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product, err := services.SaveProduct(c.Request.Context(), config.GetDB(), id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Failed to save product")
		return
	}
	respondOK(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id
func DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteProduct(c.Request.Context(), config.GetDB(), services.GetStorageService(), id); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// CreateVariant handles POST /api/v1/admin/products/:id/variants
func CreateVariant(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	variant, err := services.SaveVariant(c.Request.Context(), config.GetDB(), productID, 0, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Failed to save variant")
		return
	}
	respondOK(c, http.StatusCreated, variant)
}

// UpdateVariant handles PUT /api/v1/admin/variants/:id
func UpdateVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	variant, err := services.SaveVariant(c.Request.Context(), config.GetDB(), 0, id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "Failed to save variant")
		return
	}
	respondOK(c, http.StatusOK, variant)
}

// DeleteVariant handles DELETE /api/v1/admin/variants/:id
func DeleteVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteVariant(c.Request.Context(), config.GetDB(), id); err != nil {
		respondServiceError(c, err, "Failed to delete variant")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// UploadProductImage handles POST /api/v1/admin/products/:id/images (multipart "image")
func UploadProductImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile(imageField)
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "No image file provided", err.Error())
		return
	}
	if err := utils.ValidateImageFile(file); err != nil {
		respondFileError(c, err)
		return
	}

	image, err := services.UploadProductImage(c.Request.Context(), config.GetDB(), services.GetStorageService(), productID, file)
	if err != nil {
		respondServiceError(c, err, "Failed to upload image")
		return
	}
	respondOK(c, http.StatusCreated, image)
}

// SetPrimaryImage handles PUT /api/v1/admin/products/:id/primary-image
func SetPrimaryImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PrimaryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product, err := services.SetPrimaryImage(c.Request.Context(), config.GetDB(), productID, req.ImageID)
	if err != nil {
		respondServiceError(c, err, "Failed to set primary image")
		return
	}
	respondOK(c, http.StatusOK, product)
}

// DeleteProductImage handles DELETE /api/v1/admin/images/:id
func DeleteProductImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteProductImage(c.Request.Context(), config.GetDB(), services.GetStorageService(), id); err != nil {
		respondServiceError(c, err, "Failed to delete image")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// SeedProducts handles POST /api/v1/admin/products/seed
func SeedProducts(c *gin.Context) {
	created, err := services.SeedSampleProducts(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to seed products")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"created": created})
}

// GetSettings handles GET /api/v1/admin/settings
func GetSettings(c *gin.Context) {
	settings, err := services.GetSettings(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to load settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/admin/settings with a {key: value} object
func UpdateSettings(c *gin.Context) {
	var req map[string]json.RawMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := services.UpsertSettings(c.Request.Context(), config.GetDB(), req); err != nil {
		respondServiceError(c, err, "Failed to save settings")
		return
	}

	settings, err := services.GetSettings(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to load settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}
