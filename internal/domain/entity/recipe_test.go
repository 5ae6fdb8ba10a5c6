package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuoteRecipePrice(t *testing.T) {
	pricing := DefaultRecipePricing()

	cases := []struct {
		name        string
		ingredients []string
		oilType     string
		spiceLevel  string
		total       int64
	}{
		{"plain", nil, "", "", 200},
		{"ingredients only", []string{"mango", "fenugreek"}, "", "", 220},
		{"mustard oil is standard", []string{"mango"}, "mustard", "mild", 210},
		{"sesame carries a premium", nil, "sesame", "", 220},
		{"olive carries a premium", nil, "Olive", "", 220},
		{"medium heat", nil, "", "medium", 205},
		{"hot heat", nil, "", "hot", 210},
		{"extra hot heat", nil, "", "extra-hot", 215},
		{"everything", []string{"mango", "garlic", "chilli"}, "sesame", "extra-hot", 265},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quote := QuoteRecipePrice(pricing, decimal.NewFromInt(200), tc.ingredients, tc.oilType, tc.spiceLevel)
			assert.True(t, decimal.NewFromInt(tc.total).Equal(quote.TotalPrice),
				"expected %d, got %s", tc.total, quote.TotalPrice)
		})
	}
}

func TestQuoteRecipePrice_Breakdown(t *testing.T) {
	quote := QuoteRecipePrice(DefaultRecipePricing(), decimal.NewFromInt(200),
		[]string{"mango", "garlic"}, "sesame", "hot")

	assert.Equal(t,
		"Base Price: ₹200.00 + Ingredients (2): ₹20.00 + Oil Type (sesame): ₹20.00 + Spice Level (hot): ₹10.00 = Total: ₹250.00",
		quote.Breakdown)
}

func TestCustomRecipe_Reprice(t *testing.T) {
	recipe := NewCustomRecipe(uuid.New(), "Test Jar", decimal.NewFromInt(100))
	recipe.Ingredients = []string{"lime"}
	recipe.SpiceLevel = "medium"

	recipe.Reprice(DefaultRecipePricing(), nil)
	assert.True(t, decimal.NewFromInt(115).Equal(recipe.TotalPrice), "got %s", recipe.TotalPrice)

	custom := decimal.NewFromInt(500)
	recipe.Reprice(DefaultRecipePricing(), &custom)
	assert.True(t, custom.Equal(recipe.TotalPrice))
}

func TestNewRecipeShareToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		token := NewRecipeShareToken(time.Now())
		assert.Regexp(t, `^RECIPE_\d+_\d+$`, token)
		seen[token] = true
	}
	// The random suffix disambiguates same-millisecond tokens often
	// enough that 50 draws should not all collide.
	assert.Greater(t, len(seen), 1)
}
