// Package abv aggregates sub-recipe volume and alcohol content.
package abv

import (
	"math"
	"strings"

	"backbar/internal/naming"
	"backbar/internal/units"
	"backbar/models"
)

// alcoholicCategories are ingredient category fragments treated as alcoholic
// even when the ingredient carries no ABV.
var alcoholicCategories = []string{"spirit", "liquor", "liqueur", "wine", "beer", "vermouth", "amaro", "cider", "sake"}

// Stats is the volume breakdown behind an ABV figure.
type Stats struct {
	TotalVolumeML float64 `json:"total_volume_ml"`
	AlcoholML     float64 `json:"alcohol_ml"`
	ABV           float64 `json:"abv"`
	Wash          bool    `json:"wash"`
	// Skipped counts lines that could not be resolved or measured in ml.
	Skipped int `json:"skipped"`
}

// Compute returns the recipe ABV rounded to one decimal place.
func Compute(recipe *models.Recipe, ingredients []models.Ingredient) float64 {
	return Aggregate(recipe, ingredients).ABV
}

// Aggregate sums line volumes and alcohol for recipe.
func Aggregate(recipe *models.Recipe, ingredients []models.Ingredient) Stats {
	return AggregateIndex(recipe, naming.NewIngredientIndex(ingredients))
}

// AggregateIndex is Aggregate over a prebuilt index. For wash recipes only
// alcoholic lines count toward the volume denominator, so the wash medium
// does not dilute the reported strength.
func AggregateIndex(recipe *models.Recipe, idx *naming.IngredientIndex) Stats {
	var stats Stats
	if recipe == nil {
		return stats
	}
	stats.Wash = models.IsWashCategory(recipe.Category)

	for _, line := range recipe.Ingredients {
		ingredient := idx.Resolve(line)
		if ingredient == nil {
			stats.Skipped++
			continue
		}
		ml, err := units.ConvertE(line.Amount, line.Unit, units.ML, ingredient)
		if err != nil || ml <= 0 {
			stats.Skipped++
			continue
		}

		alcoholic := IsAlcoholic(ingredient)
		if stats.Wash && !alcoholic {
			continue
		}
		stats.TotalVolumeML += ml
		if ingredient.ABV > 0 {
			stats.AlcoholML += ml * ingredient.ABV / 100
		}
	}

	if stats.TotalVolumeML > 0 {
		stats.ABV = clamp(round1(stats.AlcoholML / stats.TotalVolumeML * 100))
	}
	return stats
}

// IsAlcoholic reports whether an ingredient counts as an alcoholic component.
func IsAlcoholic(ingredient *models.Ingredient) bool {
	if ingredient == nil {
		return false
	}
	if ingredient.ABV > 0 {
		return true
	}
	category := strings.ToLower(ingredient.Category)
	for _, fragment := range alcoholicCategories {
		if strings.Contains(category, fragment) {
			return true
		}
	}
	return false
}

// AutoYieldML estimates the yield of a recipe with no declared yield by
// summing line volumes. White sugar counts for half its volume once
// dissolved.
func AutoYieldML(recipe *models.Recipe, ingredients []models.Ingredient) float64 {
	return AutoYieldIndex(recipe, naming.NewIngredientIndex(ingredients))
}

func AutoYieldIndex(recipe *models.Recipe, idx *naming.IngredientIndex) float64 {
	if recipe == nil {
		return 0
	}
	total := 0.0
	for _, line := range recipe.Ingredients {
		ingredient := idx.Resolve(line)
		ml, err := units.ConvertE(line.Amount, line.Unit, units.ML, ingredient)
		if err != nil || ml <= 0 {
			continue
		}
		name := line.IngredientName
		if ingredient != nil {
			name = ingredient.Name
		}
		if isWhiteSugar(name) {
			ml /= 2
		}
		total += ml
	}
	return total
}

func isWhiteSugar(name string) bool {
	key := naming.Key(name)
	switch key {
	case "sugar", "white sugar", "granulated sugar", "caster sugar", "superfine sugar":
		return true
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
