package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict is returned when an optimistic-lock update
	// finds the order was modified concurrently.
	ErrOrderVersionConflict = errors.New("order version conflict")
)

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	Status        entity.OrderStatus
	PaymentStatus entity.PaymentStatus
}

// OrderRepository defines the standard operations for order persistence.
// Orders are loaded and saved with their item snapshots.
type OrderRepository interface {
	// FindByID retrieves a single order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByOrderNumber retrieves a single order by its human-readable reference.
	FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)

	// FindByPaymentID retrieves a single order by its gateway payment reference.
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.Order, error)

	// ListByUser retrieves a customer's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// List retrieves orders matching the filter, newest first.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)

	// ListByAssignedSHG retrieves orders assigned to an SHG Didi.
	ListByAssignedSHG(ctx context.Context, shgID uuid.UUID) ([]*entity.Order, error)

	// ListByDeliveryBoy retrieves orders assigned to a delivery agent.
	ListByDeliveryBoy(ctx context.Context, deliveryBoyID uuid.UUID) ([]*entity.Order, error)

	// Create persists a new order together with its items.
	Create(ctx context.Context, order *entity.Order) error

	// Update persists order changes guarded by the optimistic version
	// counter. The entity's Version must hold the value that was read;
	// on success it is incremented, otherwise ErrOrderVersionConflict
	// is returned and nothing is written.
	Update(ctx context.Context, order *entity.Order) error
}
