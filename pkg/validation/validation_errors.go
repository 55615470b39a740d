package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator.ValidationErrors to field-level messages
func FormatValidationErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{
			Field:   e.Field(),
			Message: formatSingleError(e),
		})
	}
	return out
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	param := e.Param()

	switch e.Tag() {
	case "required":
		return "is required"

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s items", param)
		}
		return fmt.Sprintf("must be at least %s", param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at most %s items", param)
		}
		return fmt.Sprintf("must be at most %s", param)

	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(param), ", "))

	case "email":
		return "must be a valid email address"

	case "url":
		return "must be a valid URL"

	case "uuid4", "uuid":
		return "must be a valid identifier"

	case "valid_name":
		return "may only contain letters, digits, spaces and . ' - / & ( ) ,"

	case "valid_phone":
		return "must be a phone number of 7-15 digits, optionally prefixed with +"

	case "no_emoji":
		return "must not contain emoji or special symbols"

	case "gtefield":
		return fmt.Sprintf("must not be before %s", lowerFirst(param))

	case "eqfield":
		return fmt.Sprintf("must match %s", lowerFirst(param))

	case "nefield":
		return fmt.Sprintf("must differ from %s", lowerFirst(param))

	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
