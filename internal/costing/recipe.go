package costing

import (
	"github.com/shopspring/decimal"

	"backbar/internal/abv"
	"backbar/internal/units"
	"backbar/models"
)

// Summary is the cost breakdown of a whole recipe.
type Summary struct {
	RecipeID           uint     `json:"recipe_id"`
	RecipeName         string   `json:"recipe_name"`
	Total              float64  `json:"total"`
	Lines              []Result `json:"lines"`
	FullyCosted        bool     `json:"fully_costed"`
	NeedsCostAttention bool     `json:"needs_cost_attention"`
	Unresolved         int      `json:"unresolved"`
	MenuPrice          float64  `json:"menu_price"`
	PourCostPercent    float64  `json:"pour_cost_percent"`
}

// RecipeCost prices every line. Unresolved lines add nothing to the total
// but stay in Lines flagged for attention.
func (r *Resolver) RecipeCost(recipe *models.Recipe) Summary {
	if recipe == nil {
		return Summary{}
	}
	summary := Summary{
		RecipeID:    recipe.ID,
		RecipeName:  recipe.Name,
		Lines:       make([]Result, 0, len(recipe.Ingredients)),
		FullyCosted: true,
		MenuPrice:   recipe.MenuPrice,
	}

	total := decimal.Zero
	for _, line := range recipe.Ingredients {
		res := r.LineCost(line)
		summary.Lines = append(summary.Lines, res)
		if res.Outcome == OutcomeUnresolved {
			summary.Unresolved++
			summary.FullyCosted = false
			summary.NeedsCostAttention = true
			continue
		}
		total = total.Add(decimal.NewFromFloat(res.Cost))
	}
	summary.Total = total.Round(4).InexactFloat64()

	if recipe.MenuPrice > 0 {
		summary.PourCostPercent = total.
			Div(decimal.NewFromFloat(recipe.MenuPrice)).
			Mul(decimal.NewFromInt(100)).
			Round(1).
			InexactFloat64()
	}
	return summary
}

// SubRecipeCostPerUnit returns the recipe's total cost per unit of yield,
// expressed in unit. Recipes without a usable declared yield fall back to
// the auto-yield estimate.
func (r *Resolver) SubRecipeCostPerUnit(recipe *models.Recipe, unit string) float64 {
	if recipe == nil {
		return 0
	}
	var linked *models.Ingredient
	if recipe.IngredientID != nil && r != nil {
		linked = r.index.ByID(*recipe.IngredientID)
	}
	if unit == "" {
		unit = units.Ounce
	}

	yield := 0.0
	if recipe.YieldAmount > 0 {
		yieldUnit := recipe.YieldUnit
		if yieldUnit == "" {
			yieldUnit = unit
		}
		if v, err := units.ConvertE(recipe.YieldAmount, yieldUnit, unit, linked); err == nil {
			yield = v
		}
	}
	if yield <= 0 {
		ml := abv.AutoYieldIndex(recipe, r.Index())
		yield = units.Convert(ml, units.ML, unit, linked)
	}
	if yield <= 0 {
		return 0
	}
	return nonNegative(r.RecipeCost(recipe).Total / yield)
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(nonNegative(v)).Round(2).InexactFloat64()
}

// FormatMoney renders v with two decimals.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
