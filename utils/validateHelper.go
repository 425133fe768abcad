package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of an input struct and converts
// the first failure into a ValidationError so callers can match ErrValidation.
func ValidateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return ValidationError("field %s failed on %q", fieldErrs[0].Field(), fieldErrs[0].Tag())
	}
	return err
}

// RequireField returns a ValidationError when a required id/field is blank.
// Used by call sites validating plain arguments rather than structs.
func RequireField(name string, value string) error {
	if value == "" {
		return ValidationError("%s is required", name)
	}
	return nil
}
