package abv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backbar/models"
)

func ingredient(id uint, name, category string, abv float64) models.Ingredient {
	ing := models.Ingredient{Name: name, Category: category, ABV: abv, Unit: "oz"}
	ing.ID = id
	return ing
}

func TestComputeStandardRecipe(t *testing.T) {
	t.Parallel()

	ingredients := []models.Ingredient{
		ingredient(1, "Vodka", "Spirits", 40),
		ingredient(2, "Lime Juice", "Juice", 0),
	}
	recipe := &models.Recipe{Name: "Vodka Sour Base", Category: "Batches", Ingredients: []models.RecipeIngredient{
		{IngredientName: "Vodka", Amount: 2, Unit: "oz"},
		{IngredientName: "Lime Juice", Amount: 1, Unit: "oz"},
	}}

	stats := Aggregate(recipe, ingredients)
	assert.InDelta(t, 88.7205, stats.TotalVolumeML, 1e-3)
	assert.InDelta(t, 23.6588, stats.AlcoholML, 1e-3)
	assert.Equal(t, 26.7, stats.ABV)
	assert.False(t, stats.Wash)
	assert.Equal(t, 26.7, Compute(recipe, ingredients))
}

func TestComputeWashExcludesNonAlcoholicVolume(t *testing.T) {
	t.Parallel()

	ingredients := []models.Ingredient{
		ingredient(1, "Bourbon", "Spirits", 40),
		ingredient(2, "Whole Milk", "Dairy", 0),
	}
	recipe := &models.Recipe{Name: "Milk Washed Bourbon", Category: "Milk Wash", Ingredients: []models.RecipeIngredient{
		{IngredientName: "Bourbon", Amount: 500, Unit: "ml"},
		{IngredientName: "Whole Milk", Amount: 125, Unit: "ml"},
	}}

	stats := Aggregate(recipe, ingredients)
	assert.True(t, stats.Wash)
	assert.InDelta(t, 500, stats.TotalVolumeML, 1e-9)
	assert.Equal(t, 40.0, stats.ABV)

	recipe.Category = "Infusion"
	assert.Equal(t, 32.0, Compute(recipe, ingredients))
}

func TestComputeNeverDividesByZero(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Compute(nil, nil))
	assert.Zero(t, Compute(&models.Recipe{}, nil))

	recipe := &models.Recipe{Ingredients: []models.RecipeIngredient{
		{IngredientName: "Mystery", Amount: 2, Unit: "oz"},
		{IngredientName: "Vodka", Amount: 1, Unit: "top"},
	}}
	stats := Aggregate(recipe, []models.Ingredient{ingredient(1, "Vodka", "Spirits", 40)})
	assert.Zero(t, stats.ABV)
	assert.Equal(t, 2, stats.Skipped)
}

func TestIsAlcoholic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ing  *models.Ingredient
		want bool
	}{
		{"abv", &models.Ingredient{ABV: 12}, true},
		{"category", &models.Ingredient{Category: "Liqueurs"}, true},
		{"dairy", &models.Ingredient{Category: "Dairy"}, false},
		{"nil", nil, false},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsAlcoholic(tt.ing))
		})
	}
}

func TestAutoYieldHalvesWhiteSugar(t *testing.T) {
	t.Parallel()

	recipe := &models.Recipe{Name: "Simple Syrup", Ingredients: []models.RecipeIngredient{
		{IngredientName: "White Sugar", Amount: 1, Unit: "cup"},
		{IngredientName: "Water", Amount: 1, Unit: "cup"},
		{IngredientName: "Love", Amount: 1, Unit: "pinch"},
	}}
	assert.InDelta(t, 236.588*1.5, AutoYieldML(recipe, nil), 1e-6)
	assert.Zero(t, AutoYieldML(nil, nil))
}
