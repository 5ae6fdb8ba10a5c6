package usecase

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckoutInput defines the data required to place an order from the
// acting user's cart.
type CheckoutInput struct {
	ShippingAddress entity.Address
	BillingAddress  entity.Address // falls back to shipping when zero
	PaymentMethod   string
}

// CompletePaymentInput records a successful gateway payment.
type CompletePaymentInput struct {
	TransactionID string
}

// ListOrdersInput narrows an admin order listing.
type ListOrdersInput struct {
	Status        entity.OrderStatus
	PaymentStatus entity.PaymentStatus
}

// OrderUsecase defines the interface for order lifecycle operations.
// Reads are scoped by the acting principal: customers see their own
// orders, assigned workers see their assignments, admins see all.
type OrderUsecase interface {
	// Checkout atomically converts the user's cart into an order:
	// stock is decremented per line, the order and its snapshots are
	// persisted and the cart is emptied, all in one transaction.
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*entity.Order, error)

	// GetOrder retrieves an order the principal is allowed to see.
	GetOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// GetOrderByNumber retrieves an order by its human-readable reference.
	GetOrderByNumber(ctx context.Context, principal entity.Principal, orderNumber string) (*entity.Order, error)

	// ListMyOrders retrieves the acting customer's orders, newest first.
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListOrders retrieves orders matching the filter. Admin only.
	ListOrders(ctx context.Context, input ListOrdersInput) ([]*entity.Order, error)

	// ListAssignedOrders retrieves orders assigned to the acting SHG
	// Didi or delivery agent, depending on their role.
	ListAssignedOrders(ctx context.Context, principal entity.Principal) ([]*entity.Order, error)

	// CancelOrder cancels a not-yet-shipped order, marks the payment
	// refunded and restores the reserved stock.
	CancelOrder(ctx context.Context, principal entity.Principal, orderID uuid.UUID) (*entity.Order, error)

	// UpdateStatus moves an order along its fulfilment lifecycle.
	// Illegal transitions are rejected. Admin only.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next entity.OrderStatus) (*entity.Order, error)

	// CompletePayment records a successful payment and confirms the
	// order. The order is looked up by the gateway payment reference
	// carried in the settlement callback.
	CompletePayment(ctx context.Context, paymentID string, input CompletePaymentInput) (*entity.Order, error)

	// FailPayment records a failed payment, fails the order and
	// restores the reserved stock. Looked up by the gateway payment
	// reference like CompletePayment.
	FailPayment(ctx context.Context, paymentID string) (*entity.Order, error)

	// AssignSHG hands the order to an approved SHG Didi for
	// preparation and notifies her. Admin only.
	AssignSHG(ctx context.Context, orderID, didiProfileID uuid.UUID) (*entity.Order, error)

	// AssignDeliveryBoy hands the order to a delivery agent and
	// notifies them. Admin only.
	AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID uuid.UUID) (*entity.Order, error)
}
