package handler

import (
	"log/slog"
	"net/http"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler holds dependencies for shopping cart handlers.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// AddCartItemRequest represents the request body for adding a product to the cart.
type AddCartItemRequest struct {
	ProductID          uuid.UUID `json:"product_id" validate:"required"`
	Quantity           int       `json:"quantity" validate:"required,min=1"`
	CustomizationNotes string    `json:"customization_notes"`
}

// UpdateCartItemRequest represents the request body for changing a line quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// MergeCartRequest represents the request body for folding a session
// cart into the authenticated user's cart.
type MergeCartRequest struct {
	SourceCartID uuid.UUID `json:"source_cart_id" validate:"required"`
}

// GetCart retrieves the acting user's cart with derived totals.
func (h *CartHandler) GetCart(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.GetCart(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart, "Cart retrieved successfully")
}

// AddItem merges a product into the cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	cart, err := h.cartUC.AddItem(c.Request().Context(), principal.UserID, usecase.AddCartItemInput{
		ProductID:          req.ProductID,
		Quantity:           req.Quantity,
		CustomizationNotes: req.CustomizationNotes,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart, "Item added to cart")
}

// UpdateItem sets a cart line's quantity. Zero removes the line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	cart, err := h.cartUC.UpdateItemQuantity(c.Request().Context(), principal.UserID, itemID, req.Quantity)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart, "Cart updated successfully")
}

// RemoveItem deletes a line from the cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cart, err := h.cartUC.RemoveItem(c.Request().Context(), principal.UserID, itemID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart, "Item removed from cart")
}

// MergeCart folds a session cart into the acting user's cart.
func (h *CartHandler) MergeCart(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req MergeCartRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	cart, err := h.cartUC.MergeCart(c.Request().Context(), principal.UserID, req.SourceCartID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, cart, "Carts merged successfully")
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.cartUC.ClearCart(c.Request().Context(), principal.UserID); err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart cleared successfully")
}
