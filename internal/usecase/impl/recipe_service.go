package impl

import (
	"context"
	"log/slog"
	"strings"

	"acharwala/config"
	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/domain/service"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// recipeService implements the RecipeUsecase interface.
type recipeService struct {
	recipeRepo repository.RecipeRepository
	qrService  service.QRCodeService
	pricing    entity.RecipePricing
	baseURL    string
	logger     *slog.Logger
}

// RecipeServiceParams holds dependencies for recipeService, injected by Fx.
type RecipeServiceParams struct {
	fx.In

	RecipeRepo repository.RecipeRepository
	QRService  service.QRCodeService
	Config     *config.Config
	Logger     *slog.Logger
}

// NewRecipeService is the constructor for recipeService.
func NewRecipeService(params RecipeServiceParams) usecase.RecipeUsecase {
	pricing := entity.DefaultRecipePricing()
	baseURL := ""
	if params.Config != nil {
		baseURL = strings.TrimRight(params.Config.HTTP.BaseURL, "/")
		if params.Config.Pricing != nil {
			pricing = pricingFromConfig(params.Config.Pricing, pricing)
		}
	}

	return &recipeService{
		recipeRepo: params.RecipeRepo,
		qrService:  params.QRService,
		pricing:    pricing,
		baseURL:    baseURL,
		logger:     params.Logger,
	}
}

// pricingFromConfig overlays configured cost constants on the defaults.
// Malformed values keep the default for that constant.
func pricingFromConfig(cfg *config.PricingConfig, defaults entity.RecipePricing) entity.RecipePricing {
	pricing := defaults
	if v, err := decimal.NewFromString(cfg.IngredientCost); err == nil && cfg.IngredientCost != "" {
		pricing.IngredientCost = v
	}
	if v, err := decimal.NewFromString(cfg.OilPremium); err == nil && cfg.OilPremium != "" {
		pricing.OilPremium = v
	}
	if v, err := decimal.NewFromString(cfg.SpiceLevelStep); err == nil && cfg.SpiceLevelStep != "" {
		pricing.SpiceLevelStep = v
	}

	return pricing
}

func (srv *recipeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateRecipe stores a new draft recipe, pricing it deterministically.
func (srv *recipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, input usecase.RecipeInput) (*entity.CustomRecipe, error) {
	if input.Name == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("recipe name is required")
	}

	recipe := entity.NewCustomRecipe(userID, input.Name, input.BasePrice)
	applyRecipeInput(recipe, input)
	recipe.Reprice(srv.pricing, input.CustomPrice)

	if err := srv.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Recipe created", slog.Any("recipeID", recipe.ID), slog.Any("userID", userID))

	return recipe, nil
}

// UpdateRecipe reconfigures an owned recipe and reprices it.
func (srv *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, input usecase.RecipeInput) (*entity.CustomRecipe, error) {
	recipe, err := srv.findOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		recipe.Name = input.Name
	}
	recipe.BasePrice = input.BasePrice
	applyRecipeInput(recipe, input)
	recipe.Reprice(srv.pricing, input.CustomPrice)

	if err := srv.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// GetRecipe retrieves an owned recipe.
func (srv *recipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entity.CustomRecipe, error) {
	return srv.findOwnedRecipe(ctx, userID, recipeID)
}

// ListMyRecipes retrieves the user's recipes, newest first.
func (srv *recipeService) ListMyRecipes(ctx context.Context, userID uuid.UUID) ([]*entity.CustomRecipe, error) {
	recipes, err := srv.recipeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recipes")
	}

	return recipes, nil
}

// QuoteRecipe prices a configuration without saving it.
func (srv *recipeService) QuoteRecipe(_ context.Context, input usecase.QuoteRecipeInput) (*entity.RecipeQuote, error) {
	quote := entity.QuoteRecipePrice(srv.pricing, input.BasePrice, input.Ingredients, input.OilType, input.SpiceLevel)

	return &quote, nil
}

// SaveRecipe marks a draft as explicitly kept.
func (srv *recipeService) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entity.CustomRecipe, error) {
	recipe, err := srv.findOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	recipe.MarkSaved()
	if err := srv.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// ShareRecipe publishes the recipe's share link and returns it with a
// QR code for the link.
func (srv *recipeService) ShareRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*usecase.ShareRecipeOutput, error) {
	recipe, err := srv.findOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	recipe.MarkShared()
	if err := srv.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	shareURL := srv.baseURL + "/api/recipes/shared/" + recipe.ShareToken

	png, err := srv.qrService.GeneratePNG(shareURL)
	if err != nil {
		// The share link works without the QR image.
		srv.log(ctx).Warn("Failed to encode share QR code", slog.Any("recipeID", recipe.ID), slog.Any("error", err))
		png = nil
	}

	return &usecase.ShareRecipeOutput{
		Recipe:   recipe,
		ShareURL: shareURL,
		QRCode:   png,
	}, nil
}

// GetSharedRecipe resolves a share token to its recipe. No authentication.
func (srv *recipeService) GetSharedRecipe(ctx context.Context, shareToken string) (*entity.CustomRecipe, error) {
	recipe, err := srv.recipeRepo.FindByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, domainerrors.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to find shared recipe")
	}

	return recipe, nil
}

// DeleteRecipe removes an owned recipe.
func (srv *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := srv.findOwnedRecipe(ctx, userID, recipeID); err != nil {
		return err
	}

	if err := srv.recipeRepo.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return domainerrors.ErrRecipeNotFound
		}

		return errors.Wrap(err, "failed to delete recipe")
	}

	return nil
}

func (srv *recipeService) findOwnedRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*entity.CustomRecipe, error) {
	recipe, err := srv.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, domainerrors.ErrRecipeNotFound
		}

		return nil, errors.Wrap(err, "failed to find recipe")
	}
	if recipe.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}

	return recipe, nil
}

func applyRecipeInput(recipe *entity.CustomRecipe, input usecase.RecipeInput) {
	recipe.Description = input.Description
	recipe.Ingredients = input.Ingredients
	recipe.OilType = input.OilType
	recipe.SpiceLevel = input.SpiceLevel
	recipe.RecipeJSON = input.RecipeJSON
}
