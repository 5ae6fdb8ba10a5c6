package impl

import (
	"context"
	"strings"
	"testing"

	"acharwala/config"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc     usecase.ProductUsecase
	storage *stubStorage
	ctx     context.Context
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()

	db := newTestDB(t)
	storage := &stubStorage{}
	cfg := &config.Config{}
	cfg.HTTP.BaseURL = "https://acharwala.example.com"

	svc := NewProductService(ProductServiceParams{
		ProductRepo: postgres.NewProductRepository(db),
		QRService:   stubQRService{},
		Storage:     storage,
		Config:      cfg,
		Logger:      newTestLogger(),
	})

	return &productFixture{svc: svc, storage: storage, ctx: context.Background()}
}

func (f *productFixture) createProduct(t *testing.T, name, category string, stock int) uuid.UUID {
	t.Helper()

	product, err := f.svc.CreateProduct(f.ctx, usecase.CreateProductInput{
		Name:          name,
		Category:      category,
		Brand:         "Gram Vikas SHG",
		Price:         decimal.NewFromInt(250),
		OilType:       "mustard",
		Ingredients:   []string{"raw mango", "mustard oil", "salt"},
		StockQuantity: stock,
	})
	require.NoError(t, err)

	return product.ID
}

func TestProductService_CreateGeneratesTraceabilityQR(t *testing.T) {
	f := newProductFixture(t)

	id := f.createProduct(t, "Mango Pickle", "Achar", 10)

	product, err := f.svc.GetProduct(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, product.Available)
	assert.True(t, strings.HasPrefix(product.QRCodeURL, "/uploads/qr_product_"), "got %q", product.QRCodeURL)
	assert.Equal(t, []string{"raw mango", "mustard oil", "salt"}, product.Ingredients)
}

func TestProductService_CreateRejectsNegativeStock(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.CreateProduct(f.ctx, usecase.CreateProductInput{Name: "Bad", StockQuantity: -1})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_RejectsExpiryBeforeManufacture(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.CreateProduct(f.ctx, usecase.CreateProductInput{
		Name:              "Backdated Pickle",
		Category:          "Achar",
		Price:             decimal.NewFromInt(250),
		StockQuantity:     10,
		ManufacturingDate: "2026-05-01",
		ExpiryDate:        "2020-01-01",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	id := f.createProduct(t, "Mango Pickle", "Achar", 10)
	_, err = f.svc.UpdateProduct(f.ctx, id, usecase.UpdateProductInput{
		Name: "Mango Pickle", Category: "Achar", Price: decimal.NewFromInt(250),
		StockQuantity: 10, Available: true,
		ManufacturingDate: "2026-05-01", ExpiryDate: "2026-04-30",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.svc.UpdateProduct(f.ctx, id, usecase.UpdateProductInput{
		Name: "Mango Pickle", Category: "Achar", Price: decimal.NewFromInt(250),
		StockQuantity: 10, Available: true,
		ManufacturingDate: "not-a-date",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_ExpiredProductForcedUnavailable(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.svc.CreateProduct(f.ctx, usecase.CreateProductInput{
		Name:              "Old Stock Pickle",
		Category:          "Achar",
		Price:             decimal.NewFromInt(250),
		StockQuantity:     10,
		ManufacturingDate: "2019-06-01",
		ExpiryDate:        "2020-06-01",
	})
	require.NoError(t, err)
	assert.False(t, product.Available)

	// The same rule applies when an update backdates the expiry,
	// even if the caller asks for the product to stay listed.
	id := f.createProduct(t, "Mango Pickle", "Achar", 10)
	updated, err := f.svc.UpdateProduct(f.ctx, id, usecase.UpdateProductInput{
		Name: "Mango Pickle", Category: "Achar", Price: decimal.NewFromInt(250),
		StockQuantity: 10, Available: true,
		ManufacturingDate: "2019-06-01", ExpiryDate: "2020-06-01",
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)

	listed, err := f.svc.ListProducts(f.ctx, usecase.ListProductsInput{OnlyAvailable: true})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestProductService_ListFilters(t *testing.T) {
	f := newProductFixture(t)
	f.createProduct(t, "Mango Pickle", "Achar", 10)
	f.createProduct(t, "Masala Papad", "Papad", 5)
	f.createProduct(t, "Sold Out Chutney", "Chutney", 0)

	all, err := f.svc.ListProducts(f.ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	achar, err := f.svc.ListProducts(f.ctx, usecase.ListProductsInput{Category: "Achar"})
	require.NoError(t, err)
	require.Len(t, achar, 1)
	assert.Equal(t, "Mango Pickle", achar[0].Name)

	available, err := f.svc.ListProducts(f.ctx, usecase.ListProductsInput{OnlyAvailable: true})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	search, err := f.svc.ListProducts(f.ctx, usecase.ListProductsInput{Search: "papad"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Masala Papad", search[0].Name)
}

func TestProductService_Update(t *testing.T) {
	f := newProductFixture(t)
	id := f.createProduct(t, "Mango Pickle", "Achar", 10)

	updated, err := f.svc.UpdateProduct(f.ctx, id, usecase.UpdateProductInput{
		Name:          "Mango Pickle Deluxe",
		Category:      "Achar",
		Brand:         "Gram Vikas SHG",
		Price:         decimal.NewFromInt(300),
		Discount:      decimal.NewFromInt(30),
		StockQuantity: 7,
		Available:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mango Pickle Deluxe", updated.Name)
	assert.Equal(t, 7, updated.StockQuantity)
	assert.True(t, decimal.NewFromInt(270).Equal(updated.EffectivePrice()))

	// Marking available with zero stock keeps the product hidden.
	updated, err = f.svc.UpdateProduct(f.ctx, id, usecase.UpdateProductInput{
		Name: "Mango Pickle Deluxe", Category: "Achar", Price: decimal.NewFromInt(300),
		StockQuantity: 0, Available: true,
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)
}

func TestProductService_Delete(t *testing.T) {
	f := newProductFixture(t)
	id := f.createProduct(t, "Mango Pickle", "Achar", 10)

	require.NoError(t, f.svc.DeleteProduct(f.ctx, id))

	_, err := f.svc.GetProduct(f.ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	err = f.svc.DeleteProduct(f.ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_UploadImage(t *testing.T) {
	f := newProductFixture(t)
	id := f.createProduct(t, "Mango Pickle", "Achar", 10)

	updated, err := f.svc.UploadProductImage(f.ctx, id, usecase.UploadFileInput{
		FileName:    "mango.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/mango.jpg", updated.ImageURL)
}

func TestProductService_AdjustStock(t *testing.T) {
	f := newProductFixture(t)
	id := f.createProduct(t, "Mango Pickle", "Achar", 5)

	require.NoError(t, f.svc.AdjustStock(f.ctx, id, -3))

	product, err := f.svc.GetProduct(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, product.StockQuantity)

	// A decrement past zero is refused outright.
	err = f.svc.AdjustStock(f.ctx, id, -3)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	// Draining the stock flips availability off, restocking flips it back.
	require.NoError(t, f.svc.AdjustStock(f.ctx, id, -2))
	product, err = f.svc.GetProduct(f.ctx, id)
	require.NoError(t, err)
	assert.False(t, product.Available)

	require.NoError(t, f.svc.AdjustStock(f.ctx, id, 4))
	product, err = f.svc.GetProduct(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, product.Available)
	assert.Equal(t, 4, product.StockQuantity)

	err = f.svc.AdjustStock(f.ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}
