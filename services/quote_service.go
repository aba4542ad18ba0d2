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

var newQuoteRequestNumber = pricing.NewQuoteRequestNumber

// QuoteRequestInput is a submitted fabrication quote form
type QuoteRequestInput struct {
	CustomerName     string
	CustomerEmail    *string
	CustomerPhone    string
	CompanyName      *string
	ProjectName      *string
	ServiceType      *string
	Description      *string
	QuantityEstimate *string
	Urgency          string
	SessionID        string
	Files            []*multipart.FileHeader
}

// QuoteRequestResult carries the stored request and one warning per file that failed
type QuoteRequestResult struct {
	QuoteRequest *models.QuoteRequest
	UploadErrors []string
}

// CreateQuoteRequest stores the request, then uploads each file independently
func CreateQuoteRequest(ctx context.Context, db *gorm.DB, storage StorageService, input QuoteRequestInput) (*QuoteRequestResult, error) {
	request := &models.QuoteRequest{
		RequestNumber:    newQuoteRequestNumber(),
		CustomerName:     input.CustomerName,
		CustomerEmail:    input.CustomerEmail,
		CustomerPhone:    input.CustomerPhone,
		CompanyName:      input.CompanyName,
		ProjectName:      input.ProjectName,
		ServiceType:      input.ServiceType,
		Description:      input.Description,
		QuantityEstimate: input.QuantityEstimate,
		Urgency:          lo.CoalesceOrEmpty(input.Urgency, models.UrgencyStandard),
		Status:           models.QuoteStatusNew,
		SessionID:        lo.EmptyableToPtr(input.SessionID),
	}

	if err := db.WithContext(ctx).Omit("Files").Create(request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, request.RequestNumber)
		}
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	logger.Info(ctx, "quote request created",
		logger.String("request_number", request.RequestNumber),
		logger.Int("files", len(input.Files)),
	)

	result := &QuoteRequestResult{QuoteRequest: request, UploadErrors: []string{}}
	for _, fileHeader := range input.Files {
		key := ObjectKey(PrefixQuoteRequestFiles, request.ID, fileHeader.Filename)
		contentType, err := UploadFileHeader(ctx, storage, key, fileHeader)
		if err != nil {
			logger.Warn(ctx, "quote file upload failed", logger.String("file", fileHeader.Filename), logger.ErrorF(err))
			result.UploadErrors = append(result.UploadErrors, fmt.Sprintf("Failed to upload %s", fileHeader.Filename))
			continue
		}

		file := models.QuoteRequestFile{
			QuoteRequestID: request.ID,
			FilePath:       key,
			FileName:       fileHeader.Filename,
			MimeType:       contentType,
		}
		if err := db.WithContext(ctx).Create(&file).Error; err != nil {
			logger.Warn(ctx, "quote file record failed", logger.String("file", fileHeader.Filename), logger.ErrorF(err))
			result.UploadErrors = append(result.UploadErrors, fmt.Sprintf("Failed to save %s", fileHeader.Filename))
			if delErr := storage.Delete(ctx, key); delErr != nil {
				logger.Warn(ctx, "failed to remove orphaned quote file", logger.String("key", key), logger.ErrorF(delErr))
			}
			continue
		}
		request.Files = append(request.Files, file)
	}

	return result, nil
}

// ListQuoteRequests returns every quote request with its files, newest first
func ListQuoteRequests(ctx context.Context, db *gorm.DB) ([]models.QuoteRequest, error) {
	var requests []models.QuoteRequest
	err := db.WithContext(ctx).
		Preload("Files").
		Order("created_at DESC").
		Order("id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	return requests, nil
}

// QuoteRequestFileURL signs a stored quote file path. Only paths recorded
// against a quote request can be signed.
func QuoteRequestFileURL(ctx context.Context, db *gorm.DB, storage StorageService, path string, ttl time.Duration) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path is required", ErrValidation)
	}
	if storage == nil {
		return "", fmt.Errorf("%w: storage is not configured", ErrStorage)
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.QuoteRequestFile{}).Where("file_path = ?", path).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to look up file: %w", err)
	}
	if count == 0 {
		return "", fmt.Errorf("%w: file %s", ErrNotFound, path)
	}

	url, err := storage.PresignedURL(ctx, path, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return url, nil
}
