package services

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
	ErrConflict             = errors.New("conflict")
	ErrStorage              = errors.New("storage error")
	ErrAuth0                = errors.New("auth0 error")
)
