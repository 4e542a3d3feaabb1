// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	apperrors "todo-backend/pkg/errors"
)

// maxBodyBytes bounds request bodies read by DecodeAndValidate.
const maxBodyBytes = 1 << 20

// CreateTodoRequest is the expected body for a POST /todos request.
type CreateTodoRequest struct {
	Name    *string `json:"name" validate:"required,todoname"`
	DueDate *string `json:"dueDate,omitempty" validate:"omitempty,isodate"`
	Note    *string `json:"note,omitempty"`
}

// UpdateTodoRequest is the expected body for a PATCH /todos/{todoId} request.
// Note is accepted for compatibility with clients that send the whole item
// but it is never stored by a full update.
type UpdateTodoRequest struct {
	Name    *string `json:"name" validate:"required,todoname"`
	DueDate *string `json:"dueDate" validate:"required,isodate"`
	Done    *bool   `json:"done" validate:"required"`
	Note    *string `json:"note,omitempty"`
	Version *int    `json:"version,omitempty" validate:"omitempty,min=1"`
}

// UpdateTodoNoteRequest is the expected body for a PATCH /todos/{todoId}/note request.
type UpdateTodoNoteRequest struct {
	Note *string `json:"note" validate:"required"`
}

// DecodeAndValidate reads a JSON body into dst and runs the struct validator.
// Every failure is reported as a validation error.
func DecodeAndValidate(body io.Reader, dst interface{}) error {
	if body == nil {
		return apperrors.NewValidation("request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperrors.NewValidation("request body must contain a single JSON object")
	}
	return ValidateStruct(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &typeErr):
		return apperrors.NewValidation(fmt.Sprintf("%s must be a %s", typeErr.Field, expectedType(typeErr)))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.NewValidation("request body is not valid JSON")
	case errors.Is(err, io.EOF):
		return apperrors.NewValidation("request body is required")
	default:
		return apperrors.NewValidation("request body could not be decoded")
	}
}

func expectedType(err *json.UnmarshalTypeError) string {
	if err.Type == nil {
		return "valid value"
	}
	switch err.Type.Kind().String() {
	case "bool":
		return "boolean"
	case "int", "int64":
		return "number"
	default:
		return err.Type.Kind().String()
	}
}
