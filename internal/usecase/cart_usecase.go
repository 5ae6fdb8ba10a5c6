package usecase

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCartItemInput defines the data required to add a product to a cart.
type AddCartItemInput struct {
	ProductID          uuid.UUID
	Quantity           int
	CustomizationNotes string
}

// CartOutput is a cart together with its derived totals.
type CartOutput struct {
	Cart        *entity.Cart
	TotalAmount decimal.Decimal
	TotalItems  int
}

// CartUsecase defines the interface for shopping cart operations.
// Every operation is scoped to the acting user's own cart.
type CartUsecase interface {
	// GetCart retrieves the user's cart, creating an empty one on first use.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)

	// AddItem merges a product into the cart, validating stock.
	AddItem(ctx context.Context, userID uuid.UUID, input AddCartItemInput) (*CartOutput, error)

	// UpdateItemQuantity sets the quantity of a cart line. A quantity
	// of zero removes the line.
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartOutput, error)

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartOutput, error)

	// ClearCart empties the cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// MergeCart folds another cart's lines into the user's cart,
	// summing quantities for shared products and copying unique
	// lines, then discards the source cart. Used to convert an
	// anonymous session cart after login.
	MergeCart(ctx context.Context, userID, sourceCartID uuid.UUID) (*CartOutput, error)
}
