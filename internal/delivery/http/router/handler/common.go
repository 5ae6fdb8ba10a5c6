// Package handler contains the HTTP handlers for the application.
package handler

import (
	"acharwala/internal/delivery/http/middleware"
	"acharwala/internal/delivery/http/response"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// getPrincipal extracts the authenticated caller set by the auth
// middleware. The returned error is rendered by the global error
// handler; it must be propagated, not swallowed.
func getPrincipal(c echo.Context) (entity.Principal, error) {
	principal, ok := c.Get(middleware.ContextKeyPrincipal).(entity.Principal)
	if !ok {
		return entity.Principal{}, domainerrors.ErrUnauthorized
	}

	return principal, nil
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name + " parameter")
	}

	return id, nil
}

// handleAppError renders application errors and defers the rest to the
// global error handler.
func handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
