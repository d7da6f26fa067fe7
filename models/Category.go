package models

import (
	"strings"

	"gorm.io/gorm"
)

// IngredientCategory groups ingredients (spirits, juices, syrups...).
type IngredientCategory struct {
	gorm.Model
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	Alcoholic bool   `gorm:"not null;default:false" json:"alcoholic"`
}

// RecipeCategory groups recipes. Sub-recipe categories turn their recipes
// into linked ingredients.
type RecipeCategory struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	IsSubRecipe bool   `gorm:"not null;default:false" json:"is_sub_recipe"`
}

// IsWashCategory reports whether the category name selects the wash ABV rule.
func IsWashCategory(category string) bool {
	return strings.Contains(strings.ToLower(category), "wash")
}
