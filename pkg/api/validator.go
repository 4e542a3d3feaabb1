package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"todo-backend/internal/domain"
	apperrors "todo-backend/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared request validator.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use JSON tag names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("todoname", func(fl validator.FieldLevel) bool {
			return domain.ValidName(fl.Field().String())
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return domain.ValidDate(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct validates a request struct based on its validation tags.
func ValidateStruct(s interface{}) error {
	if err := Validator().Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into a single ValidationError
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, formatFieldError(e))
		}
		return apperrors.NewValidation(strings.Join(messages, "; "))
	}
	return apperrors.NewValidation(err.Error())
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "todoname":
		return fmt.Sprintf("%s must not be empty", field)
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
