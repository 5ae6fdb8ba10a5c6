package impl

import (
	"context"
	"log/slog"

	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart retrieves the user's cart, creating an empty one on first use.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	cart, err := srv.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return cartOutput(cart), nil
}

// AddItem merges a product into the cart, validating stock.
func (srv *cartService) AddItem(ctx context.Context, userID uuid.UUID, input usecase.AddCartItemInput) (*usecase.CartOutput, error) {
	if input.Quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}
	if !product.Available {
		return nil, domainerrors.ErrProductUnavailable
	}

	cart, err := srv.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The stock check covers the line's full quantity after merging.
	requested := input.Quantity
	for _, item := range cart.Items {
		if item.ProductID == product.ID {
			requested += item.Quantity

			break
		}
	}
	if !product.InStock(requested) {
		return nil, domainerrors.ErrInsufficientStock
	}

	cart.AddItem(product, input.Quantity, input.CustomizationNotes)
	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to save cart")
	}

	srv.log(ctx).Debug("Cart item added", slog.Any("userID", userID), slog.Any("productID", product.ID), slog.Int("quantity", input.Quantity))

	return cartOutput(cart), nil
}

// UpdateItemQuantity sets the quantity of a cart line. A quantity of zero removes the line.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*usecase.CartOutput, error) {
	if quantity < 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	cart, err := srv.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if !cart.RemoveItem(itemID) {
			return nil, domainerrors.ErrCartItemNotFound
		}
	} else {
		var line *entity.CartItem
		for idx := range cart.Items {
			if cart.Items[idx].ID == itemID {
				line = &cart.Items[idx]

				break
			}
		}
		if line == nil {
			return nil, domainerrors.ErrCartItemNotFound
		}

		product, err := srv.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, domainerrors.ErrProductNotFound
			}

			return nil, errors.Wrap(err, "failed to find product")
		}
		if !product.InStock(quantity) {
			return nil, domainerrors.ErrInsufficientStock
		}

		cart.UpdateItemQuantity(itemID, quantity)
	}

	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to save cart")
	}

	return cartOutput(cart), nil
}

// RemoveItem deletes a line from the cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*usecase.CartOutput, error) {
	cart, err := srv.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(itemID) {
		return nil, domainerrors.ErrCartItemNotFound
	}

	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to save cart")
	}

	return cartOutput(cart), nil
}

// ClearCart empties the cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := srv.findCart(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCartNotFound) {
			return nil // nothing to clear
		}

		return err
	}

	if err := srv.cartRepo.DeleteItems(ctx, cart.ID); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}

// MergeCart folds another cart's lines into the user's cart and
// discards the source. Quantities of shared products are summed and
// the destination's price snapshots win; stock is re-validated at
// checkout, not here.
func (srv *cartService) MergeCart(ctx context.Context, userID, sourceCartID uuid.UUID) (*usecase.CartOutput, error) {
	source, err := srv.cartRepo.FindByID(ctx, sourceCartID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domainerrors.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find source cart")
	}

	cart, err := srv.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.ID == source.ID {
		return cartOutput(cart), nil
	}

	cart.Merge(source)
	if err := srv.cartRepo.Save(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to save merged cart")
	}
	if err := srv.cartRepo.Delete(ctx, source.ID); err != nil {
		return nil, errors.Wrap(err, "failed to discard source cart")
	}

	srv.log(ctx).Debug("Carts merged", slog.Any("userID", userID), slog.Any("sourceCartID", sourceCartID))

	return cartOutput(cart), nil
}

func (srv *cartService) findCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, domainerrors.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart")
	}

	return cart, nil
}

func (srv *cartService) loadOrCreateCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	cart, err := srv.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to find cart")
	}

	cart = entity.NewCart(userID)
	if err := srv.cartRepo.Create(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to create cart")
	}

	return cart, nil
}

func cartOutput(cart *entity.Cart) *usecase.CartOutput {
	return &usecase.CartOutput{
		Cart:        cart,
		TotalAmount: cart.TotalAmount(),
		TotalItems:  cart.TotalItems(),
	}
}
