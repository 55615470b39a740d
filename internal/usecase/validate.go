package usecase

import (
	"errors"
	"strings"

	"jobboard-api/pkg/apperror"
	"jobboard-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// validateStruct runs struct tags and converts failures to InvalidInput with field details.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperror.Internal(err)
	}
	return apperror.InvalidInput("Invalid input", validation.FormatValidationErrors(err))
}

// validateField checks a single value against tag and reports it under field.
func validateField(v *validator.Validate, field string, value interface{}, tag string) error {
	if err := v.Var(value, tag); err != nil {
		details := validation.FormatValidationErrors(err)
		for i := range details {
			details[i].Field = field
		}
		return apperror.InvalidInput("Invalid input", details)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const passwordRule = "required,min=8,max=72"
