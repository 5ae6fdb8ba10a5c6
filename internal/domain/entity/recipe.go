package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeStatus tracks a custom recipe through its editing lifecycle.
type RecipeStatus string

const (
	// RecipeStatusDraft is the state of a freshly created recipe.
	RecipeStatusDraft RecipeStatus = "DRAFT"
	// RecipeStatusSaved marks a recipe the user has explicitly kept.
	RecipeStatusSaved RecipeStatus = "SAVED"
	// RecipeStatusOrdered marks a recipe that has been turned into an order.
	RecipeStatusOrdered RecipeStatus = "ORDERED"
	// RecipeStatusShared marks a recipe exposed through its share link.
	RecipeStatusShared RecipeStatus = "SHARED"
)

// IsValid checks if the RecipeStatus is a valid value.
func (s RecipeStatus) IsValid() bool {
	switch s {
	case RecipeStatusDraft, RecipeStatusSaved, RecipeStatusOrdered, RecipeStatusShared:
		return true
	default:
		return false
	}
}

// CustomRecipe is a user-designed pickle: a base product plus chosen
// ingredients, oil and spice level, priced deterministically.
type CustomRecipe struct {
	ID          uuid.UUID       // The unique identifier for the recipe.
	UserID      uuid.UUID       // The user who designed the recipe.
	Name        string          // Display name given by the user.
	Description string          // Free-form description.
	Ingredients []string        // Chosen ingredients.
	OilType     string          // Chosen oil, e.g. "mustard", "sesame".
	SpiceLevel  string          // Chosen heat: "mild", "medium", "hot" or "extra-hot".
	RecipeJSON  string          // Full builder configuration as opaque JSON.
	BasePrice   decimal.Decimal // Starting price before customization costs.
	TotalPrice  decimal.Decimal // Final price, derived or custom-overridden.
	ShareToken  string          // Unique token backing the shareable link.
	Status      RecipeStatus    // Current lifecycle state.
	CreatedAt   time.Time       // Timestamp of when the recipe was created.
	UpdatedAt   time.Time       // Timestamp of the last modification.
}

// NewCustomRecipe creates a draft recipe with a fresh share token.
func NewCustomRecipe(userID uuid.UUID, name string, basePrice decimal.Decimal) *CustomRecipe {
	now := time.Now()

	return &CustomRecipe{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		BasePrice:  basePrice,
		TotalPrice: basePrice,
		ShareToken: NewRecipeShareToken(now),
		Status:     RecipeStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewRecipeShareToken builds a share token of the form
// "RECIPE_<unix millis>_<random 0..9999>". Uniqueness is enforced by
// the database; the random suffix only disambiguates same-millisecond
// tokens.
func NewRecipeShareToken(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("RECIPE_%d_%d", now.UnixMilli(), n.Int64())
}

// RecipePricing holds the customization cost constants used by the quote.
type RecipePricing struct {
	IngredientCost decimal.Decimal // Added per ingredient.
	OilPremium     decimal.Decimal // Added once for premium oils.
	SpiceLevelStep decimal.Decimal // Added per heat step above mild.
}

// DefaultRecipePricing returns the standard customization costs.
func DefaultRecipePricing() RecipePricing {
	return RecipePricing{
		IngredientCost: decimal.NewFromInt(10),
		OilPremium:     decimal.NewFromInt(20),
		SpiceLevelStep: decimal.NewFromInt(5),
	}
}

// RecipeQuote is the itemized result of pricing a recipe configuration.
type RecipeQuote struct {
	BasePrice      decimal.Decimal
	IngredientCost decimal.Decimal
	OilTypeCost    decimal.Decimal
	SpiceLevelCost decimal.Decimal
	TotalPrice     decimal.Decimal
	Breakdown      string
}

// QuoteRecipePrice prices a recipe configuration deterministically:
// base price, plus a per-ingredient charge, plus a premium for sesame
// or olive oil, plus a per-step heat charge. Unknown oils and spice
// levels cost nothing.
func QuoteRecipePrice(pricing RecipePricing, basePrice decimal.Decimal, ingredients []string, oilType, spiceLevel string) RecipeQuote {
	ingredientCost := pricing.IngredientCost.Mul(decimal.NewFromInt(int64(len(ingredients))))

	oilCost := decimal.Zero
	switch strings.ToLower(oilType) {
	case "sesame", "olive":
		oilCost = pricing.OilPremium
	}

	spiceCost := decimal.Zero
	switch strings.ToLower(spiceLevel) {
	case "medium":
		spiceCost = pricing.SpiceLevelStep
	case "hot":
		spiceCost = pricing.SpiceLevelStep.Mul(decimal.NewFromInt(2))
	case "extra-hot":
		spiceCost = pricing.SpiceLevelStep.Mul(decimal.NewFromInt(3))
	}

	total := basePrice.Add(ingredientCost).Add(oilCost).Add(spiceCost)

	displaySpice := spiceLevel
	if displaySpice == "" {
		displaySpice = "medium"
	}
	breakdown := fmt.Sprintf(
		"Base Price: ₹%s + Ingredients (%d): ₹%s + Oil Type (%s): ₹%s + Spice Level (%s): ₹%s = Total: ₹%s",
		basePrice.StringFixed(2),
		len(ingredients),
		ingredientCost.StringFixed(2),
		oilType,
		oilCost.StringFixed(2),
		displaySpice,
		spiceCost.StringFixed(2),
		total.StringFixed(2),
	)

	return RecipeQuote{
		BasePrice:      basePrice,
		IngredientCost: ingredientCost,
		OilTypeCost:    oilCost,
		SpiceLevelCost: spiceCost,
		TotalPrice:     total,
		Breakdown:      breakdown,
	}
}

// Reprice recomputes the recipe's total from its current configuration.
// A non-nil customPrice overrides the derived total entirely.
func (r *CustomRecipe) Reprice(pricing RecipePricing, customPrice *decimal.Decimal) {
	if customPrice != nil {
		r.TotalPrice = *customPrice
	} else {
		quote := QuoteRecipePrice(pricing, r.BasePrice, r.Ingredients, r.OilType, r.SpiceLevel)
		r.TotalPrice = quote.TotalPrice
	}
	r.UpdatedAt = time.Now()
}

// MarkSaved moves the recipe to the saved state.
func (r *CustomRecipe) MarkSaved() {
	r.Status = RecipeStatusSaved
	r.UpdatedAt = time.Now()
}

// MarkShared moves the recipe to the shared state.
func (r *CustomRecipe) MarkShared() {
	r.Status = RecipeStatusShared
	r.UpdatedAt = time.Now()
}

// MarkOrdered moves the recipe to the ordered state.
func (r *CustomRecipe) MarkOrdered() {
	r.Status = RecipeStatusOrdered
	r.UpdatedAt = time.Now()
}
