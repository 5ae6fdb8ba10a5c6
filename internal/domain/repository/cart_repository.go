package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrCartNotFound is returned when a user has no cart yet.
var ErrCartNotFound = errors.New("cart not found")

// CartRepository defines the standard operations for cart persistence.
// A cart is loaded and saved as a whole, items included.
type CartRepository interface {
	// FindByUserID retrieves a user's cart with all its items.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// FindByID retrieves a cart by its own identifier with all its
	// items. Used when folding a session cart into a user's cart.
	FindByID(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error)

	// Create persists a new, empty cart.
	Create(ctx context.Context, cart *entity.Cart) error

	// Save persists the cart and replaces its item set with the
	// entity's current items.
	Save(ctx context.Context, cart *entity.Cart) error

	// DeleteItems removes every item from a cart, leaving the cart itself in place.
	DeleteItems(ctx context.Context, cartID uuid.UUID) error

	// Delete removes a cart together with its items.
	Delete(ctx context.Context, cartID uuid.UUID) error
}
