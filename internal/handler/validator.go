package handler

import (
	"property-service/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request structs.
type RequestValidator struct {
	validate *validator.Validate
}

// NewValidator returns a validator for request DTOs
func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
