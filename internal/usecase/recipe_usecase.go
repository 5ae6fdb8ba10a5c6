package usecase

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeInput defines a custom recipe configuration. A nil CustomPrice
// derives the total from the pricing rules; non-nil overrides it.
type RecipeInput struct {
	Name        string
	Description string
	Ingredients []string
	OilType     string
	SpiceLevel  string
	RecipeJSON  string
	BasePrice   decimal.Decimal
	CustomPrice *decimal.Decimal
}

// QuoteRecipeInput prices a configuration without persisting anything.
type QuoteRecipeInput struct {
	BasePrice   decimal.Decimal
	Ingredients []string
	OilType     string
	SpiceLevel  string
}

// ShareRecipeOutput is the result of publishing a recipe's share link.
type ShareRecipeOutput struct {
	Recipe   *entity.CustomRecipe
	ShareURL string
	QRCode   []byte // PNG encoding of the share URL
}

// RecipeUsecase defines the interface for custom pickle recipes.
type RecipeUsecase interface {
	// CreateRecipe stores a new draft recipe, pricing it deterministically.
	CreateRecipe(ctx context.Context, userID uuid.UUID, input RecipeInput) (*entity.CustomRecipe, error)

	// UpdateRecipe reconfigures an owned recipe and reprices it.
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, input RecipeInput) (*entity.CustomRecipe, error)

	// GetRecipe retrieves an owned recipe.
	GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entity.CustomRecipe, error)

	// ListMyRecipes retrieves the user's recipes, newest first.
	ListMyRecipes(ctx context.Context, userID uuid.UUID) ([]*entity.CustomRecipe, error)

	// QuoteRecipe prices a configuration without saving it.
	QuoteRecipe(ctx context.Context, input QuoteRecipeInput) (*entity.RecipeQuote, error)

	// SaveRecipe marks a draft as explicitly kept.
	SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entity.CustomRecipe, error)

	// ShareRecipe publishes the recipe's share link and returns it with
	// a QR code for the link.
	ShareRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*ShareRecipeOutput, error)

	// GetSharedRecipe resolves a share token to its recipe. No authentication.
	GetSharedRecipe(ctx context.Context, shareToken string) (*entity.CustomRecipe, error)

	// DeleteRecipe removes an owned recipe.
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
}
