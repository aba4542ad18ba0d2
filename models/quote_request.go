package models

import "time"

const (
	QuoteStatusNew   = "new"
	UrgencyStandard  = "standard"
	ContactStatusNew = "new"
)

// QuoteRequest is a free-form request for pricing on a fabrication job
type QuoteRequest struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	RequestNumber    string             `gorm:"uniqueIndex;not null" json:"request_number"`
	CustomerName     string             `gorm:"not null" json:"customer_name"`
	CustomerEmail    *string            `json:"customer_email"`
	CustomerPhone    string             `gorm:"not null" json:"customer_phone"`
	CompanyName      *string            `json:"company_name"`
	ProjectName      *string            `json:"project_name"`
	ServiceType      *string            `json:"service_type"`
	Description      *string            `gorm:"type:text" json:"description"`
	QuantityEstimate *string            `json:"quantity_estimate"`
	Urgency          string             `gorm:"not null;default:'standard'" json:"urgency"`
	Status           string             `gorm:"not null;default:'new'" json:"status"`
	SessionID        *string            `gorm:"index" json:"-"`
	Files            []QuoteRequestFile `gorm:"foreignKey:QuoteRequestID" json:"quote_request_files"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// TableName specifies the table name for the QuoteRequest model
func (QuoteRequest) TableName() string {
	return "quote_requests"
}

// QuoteRequestFile is a drawing or schedule attached to a quote request
type QuoteRequestFile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	QuoteRequestID uint      `gorm:"not null;index" json:"quote_request_id"`
	FilePath       string    `gorm:"not null" json:"file_path"`
	FileName       string    `gorm:"not null" json:"file_name"`
	MimeType       string    `json:"mime_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the QuoteRequestFile model
func (QuoteRequestFile) TableName() string {
	return "quote_request_files"
}

// ContactRequest is a message left through the contact form
type ContactRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ContactName  string    `gorm:"not null" json:"contact_name"`
	ContactEmail *string   `json:"contact_email"`
	ContactPhone string    `gorm:"not null" json:"contact_phone"`
	CompanyName  *string   `json:"company_name"`
	Subject      *string   `json:"subject"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	Status       string    `gorm:"not null;default:'new'" json:"status"`
	SessionID    *string   `gorm:"index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the ContactRequest model
func (ContactRequest) TableName() string {
	return "contact_requests"
}
