package postgres

import (
	"context"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cartRepository implements the repository.CartRepository interface.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{
		db: db,
	}
}

// FindByUserID retrieves a user's cart with all its items.
func (repo *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cartM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by user id")
	}

	return toCartDomain(&cartM), nil
}

// FindByID retrieves a cart by its own identifier with all its items.
func (repo *cartRepository) FindByID(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", cartID).
		First(&cartM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by id")
	}

	return toCartDomain(&cartM), nil
}

// Create persists a new, empty cart.
func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)

	if err := repo.db.WithContext(ctx).Omit("Items").Create(cartM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("user already has a cart")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	return nil
}

// Save persists the cart and replaces its item set with the entity's
// current items. Delete-then-insert keeps merged quantities, removed
// lines and price snapshots consistent in one transaction.
func (repo *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&model.CartModel{}).
			Where("id = ?", cartM.ID).
			Update("updated_at", cartM.UpdatedAt)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to update cart")
		}
		if result.RowsAffected == 0 {
			return repository.ErrCartNotFound
		}

		if err := tx.
			Where("cart_id = ?", cartM.ID).
			Delete(&model.CartItemModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to clear cart items")
		}

		if len(cartM.Items) == 0 {
			return nil
		}

		return tx.Create(&cartM.Items).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return err
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to save cart")
	}

	return nil
}

// DeleteItems removes every item from a cart, leaving the cart itself in place.
func (repo *cartRepository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItemModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete cart items")
	}

	return nil
}

// Delete removes a cart together with its items.
func (repo *cartRepository) Delete(ctx context.Context, cartID uuid.UUID) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("cart_id = ?", cartID).
			Delete(&model.CartItemModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete cart items")
		}

		return tx.
			Where("id = ?", cartID).
			Delete(&model.CartModel{}).Error
	})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart")
	}

	return nil
}

// --- Mapper Functions ---

// toCartDomain converts a GORM CartModel to a domain Cart entity.
func toCartDomain(data *model.CartModel) *entity.Cart {
	if data == nil {
		return nil
	}

	items := make([]entity.CartItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, entity.CartItem{
			ID:                 itemM.ID,
			CartID:             itemM.CartID,
			ProductID:          itemM.ProductID,
			ProductName:        itemM.ProductName,
			Quantity:           itemM.Quantity,
			PriceAtAdd:         itemM.PriceAtAdd,
			CustomizationNotes: itemM.CustomizationNotes,
		})
	}

	return &entity.Cart{
		ID:        data.ID,
		UserID:    data.UserID,
		Items:     items,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCartDomain converts a domain Cart entity to a GORM CartModel.
func fromCartDomain(data *entity.Cart) *model.CartModel {
	if data == nil {
		return nil
	}

	items := make([]model.CartItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.CartItemModel{
			ID:                 item.ID,
			CartID:             data.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			PriceAtAdd:         item.PriceAtAdd,
			CustomizationNotes: item.CustomizationNotes,
		})
	}

	return &model.CartModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Items:     items,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
