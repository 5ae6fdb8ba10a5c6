package impl

import (
	"context"
	"testing"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	svc         usecase.CartUsecase
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	user        *entity.User
	ctx         context.Context
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	db := newTestDB(t)
	userRepo := postgres.NewUserRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	productRepo := postgres.NewProductRepository(db)

	svc := NewCartService(CartServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Logger:      newTestLogger(),
	})

	return &cartFixture{
		svc:         svc,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		user:        createTestUser(t, userRepo, "shopper@example.com", entity.RoleCustomer),
		ctx:         context.Background(),
	}
}

func (f *cartFixture) createProduct(t *testing.T, name string, price int64, stock int) *entity.Product {
	t.Helper()

	product := entity.NewProduct(name, "Achar", "Gram Vikas SHG", decimal.NewFromInt(price), stock)
	require.NoError(t, f.productRepo.Create(f.ctx, product))

	return product
}

func TestCartService_GetCartCreatesEmptyCart(t *testing.T) {
	f := newCartFixture(t)

	out, err := f.svc.GetCart(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, out.Cart.IsEmpty())
	assert.Zero(t, out.TotalItems)
	assert.True(t, out.TotalAmount.IsZero())
}

func TestCartService_AddItemMergesLines(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)

	out, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 1)

	out, err = f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 3, CustomizationNotes: "less oil"})
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 1)
	assert.Equal(t, 5, out.Cart.Items[0].Quantity)
	assert.Equal(t, "less oil", out.Cart.Items[0].CustomizationNotes)
	assert.Equal(t, 5, out.TotalItems)
	assert.True(t, decimal.NewFromInt(1250).Equal(out.TotalAmount))
}

func TestCartService_AddItemChecksStockAcrossMerge(t *testing.T) {
	f := newCartFixture(t)
	lime := f.createProduct(t, "Lime Pickle", 180, 4)

	_, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: lime.ID, Quantity: 3})
	require.NoError(t, err)

	// 3 already in the cart plus 2 more exceeds the 4 on hand.
	_, err = f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: lime.ID, Quantity: 2})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
}

func TestCartService_AddItemRejectsBadInput(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)

	_, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 0})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)

	_, err = f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	hidden := f.createProduct(t, "Hidden Pickle", 100, 0)
	_, err = f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: hidden.ID, Quantity: 1})
	assert.ErrorIs(t, err, domainerrors.ErrProductUnavailable)
}

func TestCartService_PriceSnapshotSurvivesRepricing(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)

	_, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 1})
	require.NoError(t, err)

	mango.Price = decimal.NewFromInt(400)
	require.NoError(t, f.productRepo.Update(f.ctx, mango))

	out, err := f.svc.GetCart(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(out.TotalAmount))
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)

	out, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := out.Cart.Items[0].ID

	out, err = f.svc.UpdateItemQuantity(f.ctx, f.user.ID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Cart.Items[0].Quantity)

	_, err = f.svc.UpdateItemQuantity(f.ctx, f.user.ID, itemID, 11)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	_, err = f.svc.UpdateItemQuantity(f.ctx, f.user.ID, itemID, -1)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)

	// Zero removes the line.
	out, err = f.svc.UpdateItemQuantity(f.ctx, f.user.ID, itemID, 0)
	require.NoError(t, err)
	assert.True(t, out.Cart.IsEmpty())
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)
	lime := f.createProduct(t, "Lime Pickle", 180, 10)

	_, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 1})
	require.NoError(t, err)
	out, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: lime.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 2)

	var limeLine uuid.UUID
	for _, item := range out.Cart.Items {
		if item.ProductID == lime.ID {
			limeLine = item.ID
		}
	}

	out, err = f.svc.RemoveItem(f.ctx, f.user.ID, limeLine)
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 1)
	assert.Equal(t, mango.ID, out.Cart.Items[0].ProductID)

	_, err = f.svc.RemoveItem(f.ctx, f.user.ID, limeLine)
	assert.ErrorIs(t, err, domainerrors.ErrCartItemNotFound)
}

func TestCartService_MergeCart(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 20)
	lime := f.createProduct(t, "Lime Pickle", 180, 20)

	_, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 2})
	require.NoError(t, err)

	// A session cart built before login, holding a shared product and
	// a unique one.
	guest := createTestUser(t, f.userRepo, "guest@example.com", entity.RoleCustomer)
	guestOut, err := f.svc.AddItem(f.ctx, guest.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 3})
	require.NoError(t, err)
	guestOut, err = f.svc.AddItem(f.ctx, guest.ID, usecase.AddCartItemInput{ProductID: lime.ID, Quantity: 1, CustomizationNotes: "extra tangy"})
	require.NoError(t, err)

	out, err := f.svc.MergeCart(f.ctx, f.user.ID, guestOut.Cart.ID)
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 2)
	assert.Equal(t, 6, out.TotalItems)

	for _, item := range out.Cart.Items {
		switch item.ProductID {
		case mango.ID:
			assert.Equal(t, 5, item.Quantity)
		case lime.ID:
			assert.Equal(t, 1, item.Quantity)
			assert.Equal(t, "extra tangy", item.CustomizationNotes)
		default:
			t.Fatalf("unexpected product %s in merged cart", item.ProductID)
		}
	}

	// The source cart is gone after the merge.
	_, err = f.cartRepo.FindByID(f.ctx, guestOut.Cart.ID)
	assert.ErrorIs(t, err, repository.ErrCartNotFound)

	// Merging an unknown cart fails without touching the destination.
	_, err = f.svc.MergeCart(f.ctx, f.user.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrCartNotFound)

	// Merging the user's own cart is a no-op.
	out, err = f.svc.MergeCart(f.ctx, f.user.ID, out.Cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, out.TotalItems)
}

func TestCartService_ClearCart(t *testing.T) {
	f := newCartFixture(t)
	mango := f.createProduct(t, "Mango Pickle", 250, 10)

	_, err := f.svc.AddItem(f.ctx, f.user.ID, usecase.AddCartItemInput{ProductID: mango.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearCart(f.ctx, f.user.ID))

	out, err := f.svc.GetCart(f.ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, out.Cart.IsEmpty())

	// Clearing a cart that was never created is a no-op.
	require.NoError(t, f.svc.ClearCart(f.ctx, uuid.New()))
}
