package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/middleware"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/gulfsteel/steelstore-api/pricing"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/gulfsteel/steelstore-api/utils"
	"github.com/samber/lo"
)

const (
	payloadField    = "payload"
	boqFileField    = "boq_file"
	maxMultipartMem = 32 << 20
)

// LineItemRequest is one requested line on the order form
type LineItemRequest struct {
	DiameterMm int     `json:"diameter_mm" binding:"required,gt=0"`
	LengthM    float64 `json:"length_m" binding:"required,gt=0,lte=1000"`
	Quantity   int     `json:"quantity" binding:"required,gt=0,lte=100000"`
	Shape      string  `json:"shape"`
	Unit       string  `json:"unit"`
}

// QuoteOrderRequest represents the request body for an order price preview
type QuoteOrderRequest struct {
	Items          []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryMethod string            `json:"delivery_method" binding:"required,oneof=trailer crane pickup"`
	IsExpress      bool              `json:"is_express"`
}

// CreateOrderRequest represents the order form
type CreateOrderRequest struct {
	CustomerName    string            `json:"customer_name" binding:"required"`
	CustomerPhone   string            `json:"customer_phone" binding:"required"`
	CustomerEmail   string            `json:"customer_email" binding:"omitempty,email"`
	CompanyName     string            `json:"company_name"`
	DeliveryMethod  string            `json:"delivery_method" binding:"required,oneof=trailer crane pickup"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliveryDate    string            `json:"delivery_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMethod   string            `json:"payment_method" binding:"required,oneof=cod bank_transfer"`
	IsExpress       bool              `json:"is_express"`
	Notes           string            `json:"notes"`
	OrderType       string            `json:"order_type" binding:"omitempty,oneof=straight custom"`
	Items           []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func toLineItems(items []LineItemRequest) []pricing.LineItem {
	return lo.Map(items, func(item LineItemRequest, _ int) pricing.LineItem {
		return pricing.LineItem{
			DiameterMm: item.DiameterMm,
			LengthM:    item.LengthM,
			Quantity:   item.Quantity,
			ShapeName:  strings.TrimSpace(item.Shape),
			Unit:       item.Unit,
		}
	})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)
}

// bindMultipartPayload decodes and validates the JSON "payload" field of a multipart form
func bindMultipartPayload(c *gin.Context, obj any) error {
	if err := c.Request.ParseMultipartForm(maxMultipartMem); err != nil {
		return err
	}
	payload := c.Request.FormValue(payloadField)
	if payload == "" {
		return errors.New("payload field is required")
	}
	return binding.JSON.BindBody([]byte(payload), obj)
}

// QuoteOrder handles POST /api/v1/orders/quote - prices an order without saving it
func QuoteOrder(c *gin.Context) {
	var req QuoteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	form := pricing.FormState{
		DeliveryMethod: pricing.DeliveryMethod(req.DeliveryMethod),
		IsExpress:      req.IsExpress,
	}
	summary, err := services.QuoteOrder(c.Request.Context(), config.GetDB(), toLineItems(req.Items), form)
	if err != nil {
		respondServiceError(c, err, "Failed to price order")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"summary":          summary,
		"unresolved_lines": lo.CoalesceSliceOrEmpty(summary.UnresolvedLines()),
	})
}

// CreateOrder handles POST /api/v1/orders - accepts JSON, or a multipart form
// with the JSON in "payload" and an optional "boq_file"
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	var attachment *multipart.FileHeader

	if isMultipart(c) {
		if err := bindMultipartPayload(c, &req); err != nil {
			respondValidationError(c, err)
			return
		}
		file, err := c.FormFile(boqFileField)
		switch {
		case err == nil:
			if err := utils.ValidateAttachment(file); err != nil {
				respondFileError(c, err)
				return
			}
			attachment = file
		case !errors.Is(err, http.ErrMissingFile):
			respondValidationError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	input := services.ManualOrderInput{
		ContactName:     strings.TrimSpace(req.CustomerName),
		Phone:           strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:   lo.EmptyableToPtr(strings.TrimSpace(req.CustomerEmail)),
		CompanyName:     lo.EmptyableToPtr(strings.TrimSpace(req.CompanyName)),
		DeliveryMethod:  pricing.DeliveryMethod(req.DeliveryMethod),
		DeliveryAddress: lo.EmptyableToPtr(strings.TrimSpace(req.DeliveryAddress)),
		PaymentMethod:   req.PaymentMethod,
		IsExpress:       req.IsExpress,
		Notes:           lo.EmptyableToPtr(strings.TrimSpace(req.Notes)),
		OrderType:       req.OrderType,
		Items:           toLineItems(req.Items),
		SessionID:       middleware.GetSessionID(c),
		Attachment:      attachment,
	}
	if req.DeliveryDate != "" {
		date, err := time.Parse(time.DateOnly, req.DeliveryDate)
		if err != nil {
			respondValidationError(c, err)
			return
		}
		input.PreferredDeliveryDate = &date
	}

	result, err := services.CreateManualOrder(c.Request.Context(), config.GetDB(), services.GetStorageService(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create order")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"order":            result.Order,
		"summary":          result.Summary,
		"boq_upload_error": lo.EmptyableToPtr(result.AttachmentWarning),
	})
}

// ListOrders handles GET /api/v1/admin/orders
func ListOrders(c *gin.Context) {
	filter := services.OrderFilter{Status: c.Query("status")}
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid order status")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	orders, total, err := services.ListOrders(c.Request.Context(), config.GetDB(), filter)
	if err != nil {
		respondServiceError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetOrder handles GET /api/v1/admin/orders/:id - order with items and signed file URLs
func GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := services.GetOrderDetails(c.Request.Context(), config.GetDB(), services.GetStorageService(), id, signedURLTTL())
	if err != nil {
		respondServiceError(c, err, "Failed to load order")
		return
	}
	respondOK(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	if profile, err := middleware.GetProfile(c); err == nil {
		ctx = logger.WithContextFields(ctx, logger.String("admin_email", profile.Email))
	}

	order, err := services.UpdateOrderStatus(ctx, config.GetDB(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update order status")
		return
	}
	respondOK(c, http.StatusOK, order)
}
