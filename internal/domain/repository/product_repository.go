package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a conditional stock decrement
	// cannot be satisfied by the quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductFilter narrows product listings. Zero values mean "no constraint".
type ProductFilter struct {
	Category      string
	Brand         string
	Search        string // matched against name and description
	OnlyAvailable bool
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List retrieves products matching the filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock atomically changes a product's stock by delta, which
	// may be negative. The decrement is conditional: if the resulting
	// quantity would be negative, no change is made and
	// ErrInsufficientStock is returned. Availability follows the
	// resulting quantity.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}
