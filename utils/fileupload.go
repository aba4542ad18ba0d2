package utils

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// MaxQuoteFiles caps how many drawings can be attached to one quote request
	MaxQuoteFiles = 10
)

var (
	// AttachmentExtensions are accepted for order BOQ/BBS uploads and quote files
	AttachmentExtensions = []string{".pdf", ".xls", ".xlsx", ".csv", ".doc", ".docx", ".dwg", ".dxf", ".png", ".jpg", ".jpeg"}
	// ImageExtensions are accepted for product photos
	ImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
)

// extra types the stdlib mime table does not know everywhere
var contentTypes = map[string]string{
	".dwg":  "image/vnd.dwg",
	".dxf":  "image/vnd.dxf",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".csv":  "text/csv",
	".webp": "image/webp",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateAttachment validates an order or quote attachment's size and extension
func ValidateAttachment(fileHeader *multipart.FileHeader) error {
	return validateFile(fileHeader, AttachmentExtensions)
}

// ValidateImageFile validates a product image's size and extension
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	return validateFile(fileHeader, ImageExtensions)
}

func validateFile(fileHeader *multipart.FileHeader, allowed []string) error {
	if fileHeader == nil {
		return &FileUploadError{Code: "MISSING_FILE", Message: "No file provided"}
	}

	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := FileExt(fileHeader.Filename)
	if !slices.Contains(allowed, ext) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(allowed, ", ")),
		}
	}

	return nil
}

// FileExt returns the lower-cased extension of filename, including the dot
func FileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(filename)))
}

// DetectContentType picks a MIME type for an upload. The client-declared type wins
// when present; otherwise the extension decides.
func DetectContentType(fileHeader *multipart.FileHeader) string {
	if declared := fileHeader.Header.Get("Content-Type"); declared != "" && declared != "application/octet-stream" {
		return declared
	}

	ext := FileExt(fileHeader.Filename)
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
