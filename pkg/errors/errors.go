package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeMalformedToken ErrorType = "MALFORMED_TOKEN"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeStore          ErrorType = "STORE"
	ErrorTypeInternal       ErrorType = "INTERNAL"
)

// AppError is the custom error type for the application
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error type to the response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeMalformedToken:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Constructor functions for different error types

// NewValidation creates a validation error
func NewValidation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewMalformedToken creates an error for an absent or undecodable bearer token
func NewMalformedToken(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeMalformedToken,
		Message: message,
		Err:     err,
	}
}

// NewNotFound creates a not found error
func NewNotFound(message string) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewConflict creates a conflict error
func NewConflict(message string) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewStore creates an error for a failed data-store call
func NewStore(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeStore,
		Message: message,
		Err:     err,
	}
}

// NewInternal creates an internal error
func NewInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the type
	if appErr := As(err); appErr != nil {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}

	// Otherwise, create an internal error
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// As extracts the first AppError in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Type checking functions

func isType(err error, t ErrorType) bool {
	appErr := As(err)
	return appErr != nil && appErr.Type == t
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool { return isType(err, ErrorTypeValidation) }

// IsMalformedToken checks if an error is a malformed token error
func IsMalformedToken(err error) bool { return isType(err, ErrorTypeMalformedToken) }

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool { return isType(err, ErrorTypeConflict) }

// IsStore checks if an error is a data-store error
func IsStore(err error) bool { return isType(err, ErrorTypeStore) }

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool { return isType(err, ErrorTypeInternal) }
