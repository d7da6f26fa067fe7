package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backbar/internal/units"
	"backbar/models"
)

const ozPerBottle = 750 / 29.5735

func withID(ing models.Ingredient, id uint) models.Ingredient {
	ing.ID = id
	return ing
}

func uintPtr(v uint) *uint { return &v }

func fixtureIngredients() []models.Ingredient {
	return []models.Ingredient{
		withID(models.Ingredient{
			Name: "Gin", Unit: "oz", IngredientType: models.IngredientTypePurchased,
			PurchasePrice: 30, PurchaseQuantity: 750, PurchaseUnit: "ml",
		}, 1),
		withID(models.Ingredient{
			Name: "Lemon", Unit: "each", IngredientType: models.IngredientTypePurchased,
			PurchasePrice: 6, PurchaseQuantity: 12, PurchaseUnit: "each",
			PrepActions: []models.PrepAction{{ID: "juice", Name: "juice", YieldAmount: 1.5, YieldUnit: "oz"}},
		}, 2),
		withID(models.Ingredient{
			Name: "Honey Syrup", Unit: "oz", IngredientType: models.IngredientTypeSubRecipe, CostPerUnit: 0.2,
		}, 3),
		withID(models.Ingredient{Name: "Saffron", Unit: "g"}, 4),
		withID(models.Ingredient{Name: "Club Soda", Unit: "oz", PurchasePrice: 2, PurchaseQuantity: 10}, 5),
	}
}

func TestLineCostPurchased(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtureIngredients(), nil)
	res := r.LineCost(models.RecipeIngredient{IngredientName: "gin", Amount: 2, Unit: "oz"})

	assert.Equal(t, StatusHasCost, res.Status)
	assert.Equal(t, OutcomeCosted, res.Outcome)
	assert.False(t, res.NeedsCostAttention)
	assert.Equal(t, uint(1), res.IngredientID)
	assert.InDelta(t, 2*30/ozPerBottle, res.Cost, 1e-9)
}

func TestLineCostResolvesByIDBeforeName(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtureIngredients(), nil)
	res := r.LineCost(models.RecipeIngredient{IngredientName: "Gin", IngredientID: uintPtr(3), Amount: 1, Unit: "oz"})
	assert.Equal(t, uint(3), res.IngredientID)
	assert.InDelta(t, 0.2, res.Cost, 1e-9)
}

func TestLineCostExemptIngredients(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		resolver *Resolver
		line     models.RecipeIngredient
	}{
		{"ice without catalog", NewResolver(nil, nil), models.RecipeIngredient{IngredientName: "Ice", Amount: 4, Unit: "oz"}},
		{"nil resolver", nil, models.RecipeIngredient{IngredientName: " WATER ", Amount: 1, Unit: "cup"}},
		{"priced club soda", NewResolver(fixtureIngredients(), nil), models.RecipeIngredient{IngredientID: uintPtr(5), Amount: 3, Unit: "oz"}},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := tt.resolver.LineCost(tt.line)
			assert.Equal(t, StatusHasCost, res.Status)
			assert.Equal(t, OutcomeFree, res.Outcome)
			assert.Zero(t, res.Cost)
			assert.False(t, res.NeedsCostAttention)
		})
	}
}

func TestLineCostFailures(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtureIngredients(), nil)
	cases := []struct {
		name   string
		line   models.RecipeIngredient
		status Status
		err    error
	}{
		{"unknown ingredient", models.RecipeIngredient{IngredientName: "Unobtainium", Amount: 1, Unit: "oz"}, StatusNotFound, ErrIngredientNotFound},
		{"no pricing", models.RecipeIngredient{IngredientName: "Saffron", Amount: 1, Unit: "g"}, StatusNoCost, ErrNoPricing},
		{"unconvertible", models.RecipeIngredient{IngredientName: "Lemon", Amount: 1, Unit: "oz"}, StatusNoCost, units.ErrUnconvertible},
		{"missing amount", models.RecipeIngredient{IngredientName: "Gin", Unit: "oz"}, StatusNoCost, ErrMissingAmount},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := r.LineCost(tt.line)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, OutcomeUnresolved, res.Outcome)
			assert.True(t, res.NeedsCostAttention)
			assert.Zero(t, res.Cost)
			assert.ErrorIs(t, res.Err, tt.err)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestLineCostNeverPanicsOnNil(t *testing.T) {
	t.Parallel()

	var r *Resolver
	res := r.LineCost(models.RecipeIngredient{})
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Zero(t, res.Cost)

	res = NewResolver(nil, nil).Cost(nil, models.RecipeIngredient{IngredientName: "Gin", Amount: 1, Unit: "oz"})
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Zero(t, r.CostPerUnit(nil))
	assert.Equal(t, Summary{}, r.RecipeCost(nil))
}

func TestLineCostTopIsFree(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtureIngredients(), nil)
	res := r.LineCost(models.RecipeIngredient{IngredientName: "Gin", Amount: 1, Unit: "top"})
	assert.Equal(t, StatusHasCost, res.Status)
	assert.Equal(t, OutcomeFree, res.Outcome)
	assert.Zero(t, res.Cost)
}

func TestLineCostPrepAction(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtureIngredients(), nil)
	res := r.LineCost(models.RecipeIngredient{IngredientName: "Lemon", PrepActionID: "juice", Amount: 0.75, Unit: "oz"})
	require.Equal(t, OutcomeCosted, res.Outcome)
	// half a lemon at 50 cents each
	assert.InDelta(t, 0.25, res.Cost, 1e-9)

	byName := r.LineCost(models.RecipeIngredient{IngredientName: "Lemon", PrepActionID: "Juice", Amount: 22.18, Unit: "ml"})
	assert.InDelta(t, 0.25, byName.Cost, 1e-3)
}

func TestLineCostSubRecipeUsesStoredCost(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtureIngredients(), nil)
	res := r.LineCost(models.RecipeIngredient{IngredientName: "Honey Syrup", Amount: 0.5, Unit: "oz"})
	assert.InDelta(t, 0.1, res.Cost, 1e-9)
}
