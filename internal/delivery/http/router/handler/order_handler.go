package handler

import (
	"log/slog"
	"net/http"

	"acharwala/internal/delivery/http/response"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler holds dependencies for order lifecycle handlers.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// AddressRequest represents a postal address in a request body.
type AddressRequest struct {
	StreetAddress string `json:"street_address" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Country       string `json:"country"`
	Landmark      string `json:"landmark"`
	ContactNumber string `json:"contact_number"`
	RecipientName string `json:"recipient_name"`
}

func (r AddressRequest) toEntity() entity.Address {
	return entity.Address{
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		PostalCode:    r.PostalCode,
		Country:       r.Country,
		Landmark:      r.Landmark,
		ContactNumber: r.ContactNumber,
		RecipientName: r.RecipientName,
	}
}

// CheckoutRequest represents the request body for placing an order.
type CheckoutRequest struct {
	ShippingAddress AddressRequest  `json:"shipping_address" validate:"required"`
	BillingAddress  *AddressRequest `json:"billing_address"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
}

// UpdateStatusRequest represents the request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CompletePaymentRequest records a successful gateway payment.
type CompletePaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

// AssignRequest carries the assignee for an order handoff.
type AssignRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" validate:"required"`
}

// Checkout places an order from the acting user's cart.
func (h *OrderHandler) Checkout(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := usecase.CheckoutInput{
		ShippingAddress: req.ShippingAddress.toEntity(),
		PaymentMethod:   req.PaymentMethod,
	}
	if req.BillingAddress != nil {
		input.BillingAddress = req.BillingAddress.toEntity()
	}

	order, err := h.orderUC.Checkout(c.Request().Context(), principal.UserID, input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// ListMyOrders retrieves the acting customer's orders.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.ListMyOrders(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// ListAssignedOrders retrieves orders assigned to the acting worker.
func (h *OrderHandler) ListAssignedOrders(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.ListAssignedOrders(c.Request().Context(), principal)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders, "Assigned orders retrieved successfully")
}

// GetOrder retrieves one order the principal may see.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// GetOrderByNumber retrieves one order by its human-readable reference.
func (h *OrderHandler) GetOrderByNumber(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderNumber := c.Param("number")
	if orderNumber == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Missing order number")
	}

	order, err := h.orderUC.GetOrderByNumber(c.Request().Context(), principal, orderNumber)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// CancelOrder cancels a not-yet-shipped order.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order cancelled successfully")
}

// CompletePayment records a successful payment. The gateway callback
// identifies the order by the payment reference issued at checkout.
func (h *OrderHandler) CompletePayment(c echo.Context) error {
	paymentID := c.Param("paymentId")
	if paymentID == "" {
		return domainerrors.ErrValidationFailed.WithDetails("missing paymentId parameter")
	}

	var req CompletePaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	order, err := h.orderUC.CompletePayment(c.Request().Context(), paymentID, usecase.CompletePaymentInput{
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Payment recorded successfully")
}

// FailPayment records a failed payment and restores stock.
func (h *OrderHandler) FailPayment(c echo.Context) error {
	paymentID := c.Param("paymentId")
	if paymentID == "" {
		return domainerrors.ErrValidationFailed.WithDetails("missing paymentId parameter")
	}

	order, err := h.orderUC.FailPayment(c.Request().Context(), paymentID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Payment failure recorded")
}

// ListOrders retrieves orders matching the query filters. Admin only.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	input := usecase.ListOrdersInput{
		Status:        entity.OrderStatus(c.QueryParam("status")),
		PaymentStatus: entity.PaymentStatus(c.QueryParam("payment_status")),
	}

	orders, err := h.orderUC.ListOrders(c.Request().Context(), input)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// UpdateStatus moves an order along its lifecycle. Admin only.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), orderID, entity.OrderStatus(req.Status))
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated")
}

// AssignSHG hands the order to an approved SHG Didi. Admin only.
func (h *OrderHandler) AssignSHG(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	order, err := h.orderUC.AssignSHG(c.Request().Context(), orderID, req.AssigneeID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order assigned to Didi")
}

// AssignDeliveryBoy hands the order to a delivery agent. Admin only.
func (h *OrderHandler) AssignDeliveryBoy(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assignment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	order, err := h.orderUC.AssignDeliveryBoy(c.Request().Context(), orderID, req.AssigneeID)
	if err != nil {
		return handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order assigned to delivery agent")
}
