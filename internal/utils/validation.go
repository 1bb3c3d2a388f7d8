package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can rely on `validate` struct tags after Bind.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator used for all request bodies.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.  Tag failures surface as a 400 with
// the validator's message so clients see which field was rejected.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
