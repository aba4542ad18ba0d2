package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/middleware"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/gulfsteel/steelstore-api/utils"
	"github.com/samber/lo"
)

const quoteFilesField = "files"

// CreateQuoteRequestRequest represents the fabrication quote form
type CreateQuoteRequestRequest struct {
	CustomerName     string `json:"customer_name" binding:"required"`
	CustomerEmail    string `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone    string `json:"customer_phone" binding:"required"`
	CompanyName      string `json:"company_name"`
	ProjectName      string `json:"project_name"`
	ServiceType      string `json:"service_type"`
	Description      string `json:"description"`
	QuantityEstimate string `json:"quantity_estimate"`
	Urgency          string `json:"urgency"`
}

// CreateQuoteRequest handles POST /api/v1/quote-requests - JSON, or multipart
// with the JSON in "payload" and up to ten "files"
func CreateQuoteRequest(c *gin.Context) {
	var req CreateQuoteRequestRequest
	var files []*multipart.FileHeader

	if isMultipart(c) {
		if err := bindMultipartPayload(c, &req); err != nil {
			respondValidationError(c, err)
			return
		}
		files = c.Request.MultipartForm.File[quoteFilesField]
		if len(files) == 0 {
			files = c.Request.MultipartForm.File[quoteFilesField+"[]"]
		}
		if len(files) > utils.MaxQuoteFiles {
			respondError(c, http.StatusBadRequest, "TOO_MANY_FILES",
				fmt.Sprintf("At most %d files can be attached", utils.MaxQuoteFiles))
			return
		}
		for _, file := range files {
			if err := utils.ValidateAttachment(file); err != nil {
				respondFileError(c, err)
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	input := services.QuoteRequestInput{
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerEmail:    lo.EmptyableToPtr(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:    strings.TrimSpace(req.CustomerPhone),
		CompanyName:      lo.EmptyableToPtr(strings.TrimSpace(req.CompanyName)),
		ProjectName:      lo.EmptyableToPtr(strings.TrimSpace(req.ProjectName)),
		ServiceType:      lo.EmptyableToPtr(strings.TrimSpace(req.ServiceType)),
		Description:      lo.EmptyableToPtr(strings.TrimSpace(req.Description)),
		QuantityEstimate: lo.EmptyableToPtr(strings.TrimSpace(req.QuantityEstimate)),
		Urgency:          req.Urgency,
		SessionID:        middleware.GetSessionID(c),
		Files:            files,
	}

	result, err := services.CreateQuoteRequest(c.Request.Context(), config.GetDB(), services.GetStorageService(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create quote request")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"quote_request": result.QuoteRequest,
		"upload_errors": result.UploadErrors,
	})
}

// ListQuoteRequests handles GET /api/v1/admin/quote-requests
func ListQuoteRequests(c *gin.Context) {
	requests, err := services.ListQuoteRequests(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to list quote requests")
		return
	}
	respondOK(c, http.StatusOK, requests)
}

// GetQuoteRequestFileURL handles GET /api/v1/admin/quote-requests/files/url?path=
func GetQuoteRequestFileURL(c *gin.Context) {
	path := c.Query("path")
	url, err := services.QuoteRequestFileURL(c.Request.Context(), config.GetDB(), services.GetStorageService(), path, signedURLTTL())
	if err != nil {
		respondServiceError(c, err, "Failed to sign file URL")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int(signedURLTTL().Seconds()),
	})
}
