package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses, in the order an order normally moves through them
const (
	OrderStatusPendingReview  = "pending_review"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusInProduction   = "in_production"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// OrderStatuses lists every status an admin may set
var OrderStatuses = []string{
	OrderStatusPendingReview,
	OrderStatusConfirmed,
	OrderStatusInProduction,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether status is one of OrderStatuses
func IsValidOrderStatus(status string) bool {
	return slices.Contains(OrderStatuses, status)
}

const (
	OrderSourceManual = "manual"

	PaymentCOD          = "cod"
	PaymentBankTransfer = "bank_transfer"

	ItemTypeStraightBar = "straight_bar"
	ItemTypeCustom      = "custom"
)

// Order is a submitted order with a snapshot of its totals
type Order struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	OrderNumber           string          `gorm:"uniqueIndex;not null" json:"order_number"`
	Source                string          `gorm:"not null;default:'manual'" json:"source"`
	ContactName           string          `gorm:"not null" json:"contact_name"`
	Phone                 string          `gorm:"not null" json:"phone"`
	CustomerEmail         *string         `json:"customer_email"`
	CompanyName           *string         `json:"company_name"`
	DeliveryType          string          `gorm:"not null" json:"delivery_type"` // trailer, crane, pickup
	DeliveryAddress       *string         `gorm:"type:text" json:"delivery_address"`
	PreferredDeliveryDate *time.Time      `gorm:"type:date" json:"preferred_delivery_date"`
	PaymentMethod         string          `gorm:"not null" json:"payment_method"` // cod, bank_transfer
	Express               bool            `gorm:"not null" json:"express"`
	Notes                 *string         `gorm:"type:text" json:"notes"`
	Status                string          `gorm:"not null;default:'pending_review';index" json:"status"`
	TotalWeightKg         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_weight_kg"`
	SubtotalQR            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal_qr"`
	DeliveryFeeQR         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"delivery_fee_qr"`
	ExpressFeeQR          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"express_fee_qr"`
	CutBendFeeQR          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cut_bend_fee_qr"`
	GrandTotalQR          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"grand_total_qr"`
	SessionID             *string         `gorm:"index" json:"-"`
	Items                 []OrderItem     `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
	Files                 []OrderFile     `gorm:"foreignKey:OrderID" json:"order_files,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one persisted line of an order
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	ItemType   string          `gorm:"not null" json:"item_type"`
	DiameterMm int             `gorm:"not null" json:"diameter_mm"`
	LengthM    float64         `gorm:"not null" json:"length_m"`
	Qty        int             `gorm:"not null" json:"qty"`
	WeightKg   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"weight_kg"`
	Notes      *string         `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderFile describes an attachment (usually a BOQ or BBS) stored for an order
type OrderFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	FilePath  string    `gorm:"not null" json:"file_path"`
	FileName  string    `gorm:"not null" json:"file_name"`
	MimeType  string    `json:"mime_type"`
	URL       *string   `gorm:"-" json:"url,omitempty"` // computed, signed URL
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderFile model
func (OrderFile) TableName() string {
	return "order_files"
}
