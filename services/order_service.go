package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/models"
	"github.com/gulfsteel/steelstore-api/pricing"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// OrderTypeStraight marks an order of uncut stock bars
const OrderTypeStraight = "straight"

const (
	attachmentUploadWarning = "BOQ upload failed. The order was submitted without the file."
	attachmentRecordWarning = "BOQ upload failed to save the file record. The order was submitted without the file."
)

// newOrderNumber is swapped in tests to force collisions
var newOrderNumber = pricing.NewOrderNumber

// ManualOrderInput is everything the order form submits
type ManualOrderInput struct {
	ContactName           string
	Phone                 string
	CustomerEmail         *string
	CompanyName           *string
	DeliveryMethod        pricing.DeliveryMethod
	DeliveryAddress       *string
	PreferredDeliveryDate *time.Time
	PaymentMethod         string
	IsExpress             bool
	Notes                 *string
	OrderType             string
	Items                 []pricing.LineItem
	SessionID             string
	Attachment            *multipart.FileHeader
}

// ManualOrderResult is a created order. AttachmentWarning is set when the order
// exists but its attachment could not be stored.
type ManualOrderResult struct {
	Order             *models.Order
	Summary           pricing.Summary
	AttachmentWarning string
}

// OrderFilter narrows ListOrders
type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}

// QuoteOrder prices items against the live catalog and fee settings without writing anything
func QuoteOrder(ctx context.Context, db *gorm.DB, items []pricing.LineItem, form pricing.FormState) (pricing.Summary, error) {
	if !form.DeliveryMethod.Valid() {
		return pricing.Summary{}, fmt.Errorf("%w: unknown delivery method %q", ErrValidation, form.DeliveryMethod)
	}
	catalog, err := LoadPricingCatalog(ctx, db)
	if err != nil {
		return pricing.Summary{}, err
	}
	feeConfig, err := LoadFeeConfig(ctx, db)
	if err != nil {
		return pricing.Summary{}, err
	}
	summary := pricing.Quote(items, catalog, form, feeConfig)
	if !summary.Finite() {
		return pricing.Summary{}, fmt.Errorf("%w: order totals are out of range", ErrValidation)
	}
	return summary.Rounded(), nil
}

// CreateManualOrder prices and stores an order with its line items in one
// transaction, then uploads the optional attachment. Attachment failures never
// undo the order.
func CreateManualOrder(ctx context.Context, db *gorm.DB, storage StorageService, input ManualOrderInput) (*ManualOrderResult, error) {
	if !input.DeliveryMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown delivery method %q", ErrValidation, input.DeliveryMethod)
	}
	catalog, err := LoadPricingCatalog(ctx, db)
	if err != nil {
		return nil, err
	}
	feeConfig, err := LoadFeeConfig(ctx, db)
	if err != nil {
		return nil, err
	}

	form := pricing.FormState{DeliveryMethod: input.DeliveryMethod, IsExpress: input.IsExpress}
	summary := pricing.Quote(input.Items, catalog, form, feeConfig)
	if !summary.Finite() {
		return nil, fmt.Errorf("%w: order totals are out of range", ErrValidation)
	}

	order := &models.Order{
		OrderNumber:           newOrderNumber(),
		Source:                models.OrderSourceManual,
		ContactName:           input.ContactName,
		Phone:                 input.Phone,
		CustomerEmail:         input.CustomerEmail,
		CompanyName:           input.CompanyName,
		DeliveryType:          string(input.DeliveryMethod),
		DeliveryAddress:       input.DeliveryAddress,
		PreferredDeliveryDate: input.PreferredDeliveryDate,
		PaymentMethod:         input.PaymentMethod,
		Express:               input.IsExpress && feeConfig.ExpressAvailable(),
		Notes:                 input.Notes,
		Status:                models.OrderStatusPendingReview,
		TotalWeightKg:         pricing.Amount(summary.TotalWeightKg),
		SubtotalQR:            pricing.Amount(summary.ProductsTotal),
		DeliveryFeeQR:         pricing.Amount(summary.Fees.Delivery),
		ExpressFeeQR:          pricing.Amount(summary.Fees.Express),
		CutBendFeeQR:          pricing.Amount(summary.Fees.CutAndBend),
		GrandTotalQR:          pricing.Amount(summary.GrandTotal),
	}
	if input.SessionID != "" {
		order.SessionID = lo.ToPtr(input.SessionID)
	}

	itemType := models.ItemTypeCustom
	if input.OrderType == OrderTypeStraight {
		itemType = models.ItemTypeStraightBar
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Files").Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateOrderNumber, order.OrderNumber)
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		if len(summary.Lines) == 0 {
			return nil
		}
		items := lo.Map(summary.Lines, func(line pricing.PricedLine, _ int) models.OrderItem {
			return models.OrderItem{
				OrderID:    order.ID,
				ItemType:   itemType,
				DiameterMm: line.DiameterMm,
				LengthM:    line.LengthM,
				Qty:        line.Quantity,
				WeightKg:   pricing.Amount(line.WeightKg),
				Notes:      lo.EmptyableToPtr(line.ShapeName),
			}
		})
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created",
		logger.String("order_number", order.OrderNumber),
		logger.Uint("order_id", order.ID),
		logger.Int("items", len(order.Items)),
		logger.Float64("grand_total", pricing.Round2(summary.GrandTotal)),
		logger.Bool("express", order.Express),
	)

	result := &ManualOrderResult{Order: order, Summary: summary.Rounded()}
	if input.Attachment != nil {
		file, warning := attachOrderFile(ctx, db, storage, order.ID, input.Attachment)
		if file != nil {
			order.Files = []models.OrderFile{*file}
		}
		result.AttachmentWarning = warning
	}
	return result, nil
}

func attachOrderFile(ctx context.Context, db *gorm.DB, storage StorageService, orderID uint, fileHeader *multipart.FileHeader) (*models.OrderFile, string) {
	key := ObjectKey(PrefixOrderFiles, orderID, fileHeader.Filename)
	contentType, err := UploadFileHeader(ctx, storage, key, fileHeader)
	if err != nil {
		logger.Warn(ctx, "order attachment upload failed", logger.Uint("order_id", orderID), logger.ErrorF(err))
		return nil, attachmentUploadWarning
	}

	file := &models.OrderFile{
		OrderID:  orderID,
		FilePath: key,
		FileName: fileHeader.Filename,
		MimeType: contentType,
	}
	if err := db.WithContext(ctx).Create(file).Error; err != nil {
		logger.Warn(ctx, "order attachment record failed", logger.Uint("order_id", orderID), logger.ErrorF(err))
		if delErr := storage.Delete(ctx, key); delErr != nil {
			logger.Warn(ctx, "failed to remove orphaned attachment", logger.String("key", key), logger.ErrorF(delErr))
		}
		return nil, attachmentRecordWarning
	}
	return file, ""
}

// ListOrders returns orders newest first
func ListOrders(ctx context.Context, db *gorm.DB, filter OrderFilter) ([]models.Order, int64, error) {
	query := db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// GetOrderDetails loads an order with its items and files. Each file gets a
// signed URL; a signing failure leaves that URL empty.
func GetOrderDetails(ctx context.Context, db *gorm.DB, storage StorageService, id uint, ttl time.Duration) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Files").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if storage != nil {
		for i := range order.Files {
			url, err := storage.PresignedURL(ctx, order.Files[i].FilePath, ttl)
			if err != nil {
				logger.Warn(ctx, "failed to sign order file", logger.String("key", order.Files[i].FilePath), logger.ErrorF(err))
				continue
			}
			order.Files[i].URL = lo.ToPtr(url)
		}
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to a new status
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var order models.Order
	if err := db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	logger.Info(ctx, "order status updated", logger.Uint("order_id", order.ID), logger.String("status", status))
	return &order, nil
}
