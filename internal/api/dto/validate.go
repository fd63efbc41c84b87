package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/ticketdesk/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and converts failures into a validation error
// with per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}
