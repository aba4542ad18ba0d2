package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/pricing"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/samber/lo"
)

// CalculatorItemRequest is one row of the weight calculator
type CalculatorItemRequest struct {
	DiameterMm int     `json:"diameter_mm" binding:"required,gt=0"`
	LengthM    float64 `json:"length_m" binding:"required,gt=0,lte=1000"`
	Quantity   int     `json:"quantity" binding:"required,gt=0,lte=100000"`
}

// CalculateWeightRequest represents the request body for the weight calculator
type CalculateWeightRequest struct {
	Items []CalculatorItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListProducts handles GET /api/v1/products - the active storefront catalog
func ListProducts(c *gin.Context) {
	products, err := services.ListActiveCatalog(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to load products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// GetFeeSettings handles GET /api/v1/settings/fees - fee configuration with defaults applied
func GetFeeSettings(c *gin.Context) {
	feeConfig, err := services.LoadFeeConfig(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to load fee settings")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"fees":             feeConfig,
		"express_enabled":  feeConfig.ExpressAvailable(),
		"delivery_methods": pricing.DeliveryMethods(),
		"currency":         pricing.Currency,
	})
}

// CalculatorDiameters handles GET /api/v1/calculator/diameters
func CalculatorDiameters(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"order_diameters":      pricing.Diameters(),
		"calculator_diameters": pricing.CalculatorDiameters(),
	})
}

// CalculateWeight handles POST /api/v1/calculator/weight
func CalculateWeight(c *gin.Context) {
	var req CalculateWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	items := lo.Map(req.Items, func(item CalculatorItemRequest, _ int) pricing.CalculatorItem {
		return pricing.CalculatorItem{
			DiameterMm: item.DiameterMm,
			LengthM:    item.LengthM,
			Quantity:   item.Quantity,
		}
	})
	respondOK(c, http.StatusOK, pricing.Calculate(items))
}
