package handler

import (
	"log/slog"
	"net/http"
	"time"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/domain/entity"
	"acharwala/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LocationHandlerParams holds dependencies for LocationHandler, injected by Fx.
type LocationHandlerParams struct {
	fx.In

	LocationUC usecase.LocationUsecase
	Logger     *slog.Logger
}

// LocationHandler holds dependencies for Didi location tracking handlers.
type LocationHandler struct {
	locationUC usecase.LocationUsecase
	logger     *slog.Logger
}

// NewLocationHandler is the constructor for LocationHandler.
func NewLocationHandler(params LocationHandlerParams) *LocationHandler {
	return &LocationHandler{
		locationUC: params.LocationUC,
		logger:     params.Logger,
	}
}

// LocationPingRequest represents the request body for one position report.
type LocationPingRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Location  string  `json:"location"`
	Source    string  `json:"source" validate:"omitempty,oneof=GPS MANUAL"`
	Accuracy  string  `json:"accuracy"`
}

// RecordPing stores a position report for the acting Didi.
func (h *LocationHandler) RecordPing(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req LocationPingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	ping, err := h.locationUC.RecordPing(c.Request().Context(), principal.UserID, usecase.LocationPingInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Location:  req.Location,
		Source:    entity.LocationPingSource(req.Source),
		Accuracy:  req.Accuracy,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, ping, "Location recorded successfully")
}

// LatestLocation retrieves a profile's most recent ping. Admin only.
func (h *LocationHandler) LatestLocation(c echo.Context) error {
	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ping, err := h.locationUC.LatestLocation(c.Request().Context(), profileID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, ping, "Location retrieved successfully")
}

// Trail retrieves a profile's pings since a given instant. Admin only.
// The "since" query parameter is RFC 3339; it defaults to local midnight.
func (h *LocationHandler) Trail(c echo.Context) error {
	profileID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if raw := c.QueryParam("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid since parameter, expected RFC 3339")
		}
	}

	pings, err := h.locationUC.Trail(c.Request().Context(), profileID, since)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, pings, "Location trail retrieved successfully")
}
