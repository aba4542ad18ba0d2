package services

import (
	"context"
	"fmt"

	"github.com/gulfsteel/steelstore-api/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// ContactRequestInput is a submitted contact form
type ContactRequestInput struct {
	Name      string
	Email     *string
	Phone     string
	Company   *string
	Subject   *string
	Message   string
	SessionID string
}

// CreateContactRequest stores a contact form submission
func CreateContactRequest(ctx context.Context, db *gorm.DB, input ContactRequestInput) (*models.ContactRequest, error) {
	request := &models.ContactRequest{
		ContactName:  input.Name,
		ContactEmail: input.Email,
		ContactPhone: input.Phone,
		CompanyName:  input.Company,
		Subject:      input.Subject,
		Message:      input.Message,
		Status:       models.ContactStatusNew,
		SessionID:    lo.EmptyableToPtr(input.SessionID),
	}

	if err := db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact request: %w", err)
	}
	return request, nil
}

// ListContactRequests returns contact requests newest first
func ListContactRequests(ctx context.Context, db *gorm.DB) ([]models.ContactRequest, error) {
	var requests []models.ContactRequest
	if err := db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}
	return requests, nil
}
