package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Handlers map these to HTTP statuses; the
// service layer contract is the code, not the status.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeAlreadyDeleted = "ALREADY_DELETED"
	CodeGone           = "GONE"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError signals that a resource or user does not exist.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError signals malformed input or a no-op update request.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewUnauthorizedError signals a missing or invalid authentication.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError signals a denied authorization check. The reason comes
// straight from the authorization rules.
func NewForbiddenError(reason string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: reason,
	}
}

// NewAlreadyDeletedError signals a mutation targeting a tombstoned resource.
// Callers must treat this as a conflict, not a no-op.
func NewAlreadyDeletedError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeAlreadyDeleted,
		Message: fmt.Sprintf("%s with ID %v has already been deleted", resource, id),
	}
}

// NewGoneError signals a strict read of a tombstoned resource, distinct from
// "never existed".
func NewGoneError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeGone,
		Message: fmt.Sprintf("%s with ID %v has been removed", resource, id),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
