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

// recipeRepository implements the repository.RecipeRepository interface.
type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository is the constructor for recipeRepository.
func NewRecipeRepository(db *gorm.DB) repository.RecipeRepository {
	return &recipeRepository{
		db: db,
	}
}

// FindByID retrieves a single recipe by its unique ID.
func (repo *recipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CustomRecipe, error) {
	var recipeM model.CustomRecipeModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&recipeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to find recipe by id")
	}

	return toRecipeDomain(&recipeM), nil
}

// FindByShareToken retrieves a recipe through its share link token.
func (repo *recipeRepository) FindByShareToken(ctx context.Context, token string) (*entity.CustomRecipe, error) {
	var recipeM model.CustomRecipeModel

	if err := repo.db.WithContext(ctx).
		Where("share_token = ?", token).
		First(&recipeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to find recipe by share token")
	}

	return toRecipeDomain(&recipeM), nil
}

// ListByUser retrieves a user's recipes, newest first.
func (repo *recipeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CustomRecipe, error) {
	var recipeModels []*model.CustomRecipeModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recipes by user")
	}

	return toRecipeDomainSlice(recipeModels), nil
}

// ListByUserAndStatus retrieves a user's recipes in a given lifecycle state.
func (repo *recipeRepository) ListByUserAndStatus(ctx context.Context, userID uuid.UUID, status entity.RecipeStatus) ([]*entity.CustomRecipe, error) {
	var recipeModels []*model.CustomRecipeModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(status)).
		Order("created_at DESC").
		Find(&recipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list recipes by user and status")
	}

	return toRecipeDomainSlice(recipeModels), nil
}

// Create persists a new recipe.
func (repo *recipeRepository) Create(ctx context.Context, recipe *entity.CustomRecipe) error {
	recipeM := fromRecipeDomain(recipe)

	if err := repo.db.WithContext(ctx).Create(recipeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("share token already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create recipe")
	}

	return nil
}

// Update modifies an existing recipe.
func (repo *recipeRepository) Update(ctx context.Context, recipe *entity.CustomRecipe) error {
	recipeM := fromRecipeDomain(recipe)

	result := repo.db.WithContext(ctx).
		Model(&model.CustomRecipeModel{}).
		Where("id = ?", recipeM.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(recipeM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update recipe")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecipeNotFound
	}

	return nil
}

// Delete removes a recipe.
func (repo *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CustomRecipeModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete recipe")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecipeNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toRecipeDomainSlice(models []*model.CustomRecipeModel) []*entity.CustomRecipe {
	recipes := make([]*entity.CustomRecipe, 0, len(models))
	for _, recipeM := range models {
		recipes = append(recipes, toRecipeDomain(recipeM))
	}

	return recipes
}

// toRecipeDomain converts a GORM CustomRecipeModel to a domain CustomRecipe entity.
func toRecipeDomain(data *model.CustomRecipeModel) *entity.CustomRecipe {
	if data == nil {
		return nil
	}

	return &entity.CustomRecipe{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		Description: data.Description,
		Ingredients: data.Ingredients,
		OilType:     data.OilType,
		SpiceLevel:  data.SpiceLevel,
		RecipeJSON:  data.RecipeJSON,
		BasePrice:   data.BasePrice,
		TotalPrice:  data.TotalPrice,
		ShareToken:  data.ShareToken,
		Status:      entity.RecipeStatus(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromRecipeDomain converts a domain CustomRecipe entity to a GORM CustomRecipeModel.
func fromRecipeDomain(data *entity.CustomRecipe) *model.CustomRecipeModel {
	if data == nil {
		return nil
	}

	return &model.CustomRecipeModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		Description: data.Description,
		Ingredients: data.Ingredients,
		OilType:     data.OilType,
		SpiceLevel:  data.SpiceLevel,
		RecipeJSON:  data.RecipeJSON,
		BasePrice:   data.BasePrice,
		TotalPrice:  data.TotalPrice,
		ShareToken:  data.ShareToken,
		Status:      string(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
