package server

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
)

// requestValidator adapts go-playground/validator to Echo's Validator
// interface, converting failures into structured validation errors.
type requestValidator struct {
	validate *validator.Validate
}

func newValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.ValidationError(err.Error())
	}
	return nil
}
