package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/middleware"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/samber/lo"
)

// CreateContactRequestRequest represents the contact form
type CreateContactRequestRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"required"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// CreateContactRequest handles POST /api/v1/contact-requests
func CreateContactRequest(c *gin.Context) {
	var req CreateContactRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	request, err := services.CreateContactRequest(c.Request.Context(), config.GetDB(), services.ContactRequestInput{
		Name:      strings.TrimSpace(req.Name),
		Email:     lo.EmptyableToPtr(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   lo.EmptyableToPtr(strings.TrimSpace(req.Company)),
		Subject:   lo.EmptyableToPtr(strings.TrimSpace(req.Subject)),
		Message:   strings.TrimSpace(req.Message),
		SessionID: middleware.GetSessionID(c),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to send message")
		return
	}
	respondOK(c, http.StatusCreated, request)
}

// ListContactRequests handles GET /api/v1/admin/contact-requests
func ListContactRequests(c *gin.Context) {
	requests, err := services.ListContactRequests(c.Request.Context(), config.GetDB())
	if err != nil {
		respondServiceError(c, err, "Failed to list contact requests")
		return
	}
	respondOK(c, http.StatusOK, requests)
}
