// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"net/http"

	validatorlib "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type echoValidator struct {
	validate *validatorlib.Validate
}

// New creates the request validator installed on the Echo server.
func New() echo.Validator {
	return &echoValidator{validate: validatorlib.New()}
}

// Validate checks the struct tags of a bound request body.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
