package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/services"
	"github.com/gulfsteel/steelstore-api/utils"
)

const defaultSignedURLTTL = time.Hour

func respondError(c *gin.Context, status int, code, message string, details ...string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		body["details"] = details[0]
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

func respondValidationError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

func respondFileError(c *gin.Context, err error) {
	var fileErr *utils.FileUploadError
	if errors.As(err, &fileErr) {
		respondError(c, http.StatusBadRequest, fileErr.Code, fileErr.Message)
		return
	}
	respondError(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
}

// respondServiceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a database failure with message.
func respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", message, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid order status", err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", err.Error())
	case errors.Is(err, services.ErrDuplicateOrderNumber):
		respondError(c, http.StatusConflict, "DUPLICATE_ORDER_NUMBER", "Order number already used, please submit again")
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, "CONFLICT", message, err.Error())
	case errors.Is(err, services.ErrStorage):
		logger.Error(c.Request.Context(), message, logger.ErrorF(err))
		respondError(c, http.StatusBadGateway, "STORAGE_ERROR", message)
	default:
		logger.Error(c.Request.Context(), message, logger.ErrorF(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
	}
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// parseID reads a positive numeric path parameter, writing a 400 when it is not one
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func signedURLTTL() time.Duration {
	if cfg := config.GetConfig(); cfg != nil && cfg.SignedURLTTL > 0 {
		return cfg.SignedURLTTL
	}
	return defaultSignedURLTTL
}
