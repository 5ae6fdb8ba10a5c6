package usecase

import (
	"context"
	"io"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// CreateProductInput defines the data required to list a catalogue product.
type CreateProductInput struct {
	Name              string
	Description       string
	Category          string
	Brand             string
	Price             decimal.Decimal
	Discount          decimal.Decimal
	OilType           string
	Ingredients       []string
	ManufacturingDate string
	ExpiryDate        string
	StockQuantity     int
}

// UpdateProductInput defines the mutable fields of a catalogue product.
type UpdateProductInput struct {
	Name              string
	Description       string
	Category          string
	Brand             string
	Price             decimal.Decimal
	Discount          decimal.Decimal
	OilType           string
	Ingredients       []string
	ManufacturingDate string
	ExpiryDate        string
	StockQuantity     int
	Available         bool
}

// ListProductsInput narrows the catalogue listing.
type ListProductsInput struct {
	Category      string
	Brand         string
	Search        string
	OnlyAvailable bool
}

// UploadFileInput carries an uploaded binary and its metadata.
type UploadFileInput struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// ProductUsecase defines the interface for catalogue operations.
// Mutating operations are restricted to admins by the delivery layer.
type ProductUsecase interface {
	// GetProduct retrieves a single catalogue product.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListProducts retrieves catalogue products matching the filter, newest first.
	ListProducts(ctx context.Context, input ListProductsInput) ([]*entity.Product, error)

	// CreateProduct lists a new product and generates its traceability QR code.
	CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error)

	// UpdateProduct modifies an existing product.
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*entity.Product, error)

	// DeleteProduct removes a product from the catalogue.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// UploadProductImage stores a product image and records its URL.
	UploadProductImage(ctx context.Context, id uuid.UUID, upload UploadFileInput) (*entity.Product, error)

	// AdjustStock changes a product's stock by delta, which may be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}
