package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/domain/entity"
	"acharwala/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// RecipeHandlerParams holds dependencies for RecipeHandler, injected by Fx.
type RecipeHandlerParams struct {
	fx.In

	RecipeUC usecase.RecipeUsecase
	Logger   *slog.Logger
}

// RecipeHandler holds dependencies for custom recipe handlers.
type RecipeHandler struct {
	recipeUC usecase.RecipeUsecase
	logger   *slog.Logger
}

// NewRecipeHandler is the constructor for RecipeHandler.
func NewRecipeHandler(params RecipeHandlerParams) *RecipeHandler {
	return &RecipeHandler{
		recipeUC: params.RecipeUC,
		logger:   params.Logger,
	}
}

// RecipeRequest represents the request body for creating or updating a recipe.
type RecipeRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Ingredients []string         `json:"ingredients"`
	OilType     string           `json:"oil_type"`
	SpiceLevel  string           `json:"spice_level"`
	RecipeJSON  string           `json:"recipe_json"`
	BasePrice   decimal.Decimal  `json:"base_price"`
	CustomPrice *decimal.Decimal `json:"custom_price"`
}

// QuoteRequest represents the request body for pricing a configuration.
type QuoteRequest struct {
	BasePrice   decimal.Decimal `json:"base_price"`
	Ingredients []string        `json:"ingredients"`
	OilType     string          `json:"oil_type"`
	SpiceLevel  string          `json:"spice_level"`
}

// ShareResponse carries the published share link and its QR code.
type ShareResponse struct {
	Recipe   *entity.CustomRecipe `json:"recipe"`
	ShareURL string               `json:"share_url"`
	QRCode   string               `json:"qr_code,omitempty"` // base64-encoded PNG
}

func (r RecipeRequest) toInput() usecase.RecipeInput {
	return usecase.RecipeInput{
		Name:        r.Name,
		Description: r.Description,
		Ingredients: r.Ingredients,
		OilType:     r.OilType,
		SpiceLevel:  r.SpiceLevel,
		RecipeJSON:  r.RecipeJSON,
		BasePrice:   r.BasePrice,
		CustomPrice: r.CustomPrice,
	}
}

// CreateRecipe stores a new draft recipe.
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recipe input")
	}

	recipe, err := h.recipeUC.CreateRecipe(c.Request().Context(), principal.UserID, req.toInput())
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, recipe, "Recipe created successfully")
}

// UpdateRecipe reconfigures an owned recipe.
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recipe input")
	}

	recipe, err := h.recipeUC.UpdateRecipe(c.Request().Context(), principal.UserID, recipeID, req.toInput())
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, recipe, "Recipe updated successfully")
}

// GetRecipe retrieves an owned recipe.
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	recipe, err := h.recipeUC.GetRecipe(c.Request().Context(), principal.UserID, recipeID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, recipe, "Recipe retrieved successfully")
}

// ListMyRecipes retrieves the acting user's recipes.
func (h *RecipeHandler) ListMyRecipes(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	recipes, err := h.recipeUC.ListMyRecipes(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, recipes, "Recipes retrieved successfully")
}

// QuoteRecipe prices a configuration without saving anything.
func (h *RecipeHandler) QuoteRecipe(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quote input")
	}

	quote, err := h.recipeUC.QuoteRecipe(c.Request().Context(), usecase.QuoteRecipeInput{
		BasePrice:   req.BasePrice,
		Ingredients: req.Ingredients,
		OilType:     req.OilType,
		SpiceLevel:  req.SpiceLevel,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, quote, "Recipe priced successfully")
}

// SaveRecipe marks a draft as explicitly kept.
func (h *RecipeHandler) SaveRecipe(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	recipe, err := h.recipeUC.SaveRecipe(c.Request().Context(), principal.UserID, recipeID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, recipe, "Recipe saved successfully")
}

// ShareRecipe publishes the recipe's share link.
func (h *RecipeHandler) ShareRecipe(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	output, err := h.recipeUC.ShareRecipe(c.Request().Context(), principal.UserID, recipeID)
	if err != nil {
		return handleAppError(c, err)
	}

	share := ShareResponse{
		Recipe:   output.Recipe,
		ShareURL: output.ShareURL,
	}
	if len(output.QRCode) > 0 {
		share.QRCode = base64.StdEncoding.EncodeToString(output.QRCode)
	}

	return response.Success(c, http.StatusOK, share, "Recipe shared successfully")
}

// GetSharedRecipe resolves a public share token. No authentication.
func (h *RecipeHandler) GetSharedRecipe(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Missing share token")
	}

	recipe, err := h.recipeUC.GetSharedRecipe(c.Request().Context(), token)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, recipe, "Recipe retrieved successfully")
}

// DeleteRecipe removes an owned recipe.
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	recipeID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.recipeUC.DeleteRecipe(c.Request().Context(), principal.UserID, recipeID); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Recipe deleted successfully")
}
