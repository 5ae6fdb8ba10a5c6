package handler

import (
	"log/slog"
	"net/http"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/domain/entity"
	"acharwala/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TrainingHandlerParams holds dependencies for TrainingHandler, injected by Fx.
type TrainingHandlerParams struct {
	fx.In

	TrainingUC usecase.TrainingUsecase
	Logger     *slog.Logger
}

// TrainingHandler holds dependencies for training journey handlers.
type TrainingHandler struct {
	trainingUC usecase.TrainingUsecase
	logger     *slog.Logger
}

// NewTrainingHandler is the constructor for TrainingHandler.
func NewTrainingHandler(params TrainingHandlerParams) *TrainingHandler {
	return &TrainingHandler{
		trainingUC: params.TrainingUC,
		logger:     params.Logger,
	}
}

// TrainingContentRequest represents the request body for a curriculum module.
type TrainingContentRequest struct {
	Title             string `json:"title" validate:"required"`
	Description       string `json:"description"`
	ContentType       string `json:"content_type" validate:"required"`
	ContentURL        string `json:"content_url"`
	ThumbnailURL      string `json:"thumbnail_url"`
	Content           string `json:"content"`
	SequenceOrder     int    `json:"sequence_order" validate:"min=0"`
	Difficulty        string `json:"difficulty"`
	DurationInMinutes int64  `json:"duration_in_minutes" validate:"min=0"`
	Active            bool   `json:"active"`
}

// RecordProgressRequest represents the request body for a progress update.
type RecordProgressRequest struct {
	ProgressPercentage int    `json:"progress_percentage" validate:"min=0,max=100"`
	Notes              string `json:"notes"`
}

func (r TrainingContentRequest) toInput() usecase.CreateTrainingContentInput {
	return usecase.CreateTrainingContentInput{
		Title:             r.Title,
		Description:       r.Description,
		ContentType:       entity.TrainingContentType(r.ContentType),
		ContentURL:        r.ContentURL,
		ThumbnailURL:      r.ThumbnailURL,
		Content:           r.Content,
		SequenceOrder:     r.SequenceOrder,
		Difficulty:        entity.TrainingDifficulty(r.Difficulty),
		DurationInMinutes: r.DurationInMinutes,
	}
}

// Curriculum retrieves the active modules with the acting Didi's progress.
func (h *TrainingHandler) Curriculum(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	curriculum, err := h.trainingUC.Curriculum(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, curriculum, "Curriculum retrieved successfully")
}

// RecordProgress advances the acting Didi's progress on a module.
func (h *TrainingHandler) RecordProgress(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	contentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RecordProgressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid progress input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	progress, err := h.trainingUC.RecordProgress(c.Request().Context(), principal.UserID, contentID, req.ProgressPercentage, req.Notes)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, progress, "Progress recorded successfully")
}

// CreateContent adds a curriculum module. Admin only.
func (h *TrainingHandler) CreateContent(c echo.Context) error {
	var req TrainingContentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid content input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	content, err := h.trainingUC.CreateContent(c.Request().Context(), req.toInput())
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, content, "Training module created")
}

// UpdateContent modifies an existing curriculum module. Admin only.
func (h *TrainingHandler) UpdateContent(c echo.Context) error {
	contentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req TrainingContentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid content input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	content, err := h.trainingUC.UpdateContent(c.Request().Context(), contentID, req.toInput(), req.Active)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, content, "Training module updated")
}
