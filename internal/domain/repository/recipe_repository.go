package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrRecipeNotFound is returned when a custom recipe is not found.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeRepository defines the standard operations for custom recipe persistence.
type RecipeRepository interface {
	// FindByID retrieves a single recipe by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CustomRecipe, error)

	// FindByShareToken retrieves a recipe through its share link token.
	FindByShareToken(ctx context.Context, token string) (*entity.CustomRecipe, error)

	// ListByUser retrieves a user's recipes, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CustomRecipe, error)

	// ListByUserAndStatus retrieves a user's recipes in a given lifecycle state.
	ListByUserAndStatus(ctx context.Context, userID uuid.UUID, status entity.RecipeStatus) ([]*entity.CustomRecipe, error)

	// Create persists a new recipe.
	Create(ctx context.Context, recipe *entity.CustomRecipe) error

	// Update modifies an existing recipe.
	Update(ctx context.Context, recipe *entity.CustomRecipe) error

	// Delete removes a recipe.
	Delete(ctx context.Context, id uuid.UUID) error
}
