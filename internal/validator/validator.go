// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate(&req) after binding.  Struct
// tags on the request DTOs decide what counts as well-formed input; anything
// failing here is rejected with 400 before the service layer runs.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type EchoValidator struct {
	validate *validator.Validate
}

func New() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

// Validate implements echo.Validator.  Validation failures are returned as
// *echo.HTTPError so the default error handler emits a 400 directly.
func (v *EchoValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
