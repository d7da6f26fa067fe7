package models

import (
	"gorm.io/gorm"
)

type Recipe struct {
	gorm.Model
	Name         string             `gorm:"not null;index" json:"name"`
	Category     string             `json:"category"`
	Description  string             `gorm:"type:text" json:"description"`
	Instructions string             `gorm:"type:text" json:"instructions"`
	Glassware    string             `json:"glassware"`
	Garnish      string             `json:"garnish"`
	MenuPrice    float64            `json:"menu_price"`
	YieldAmount  float64            `json:"yield_amount"`
	YieldUnit    string             `json:"yield_unit"`
	ABV          float64            `json:"abv"`
	Ingredients  []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`

	// Linked ingredient record when this recipe is a sub-recipe.
	IngredientID *uint `json:"ingredient_id,omitempty"`
}

type RecipeIngredient struct {
	gorm.Model
	RecipeID       uint    `gorm:"not null;index" json:"recipe_id"`
	Position       int     `gorm:"not null;default:0" json:"position"`
	IngredientName string  `gorm:"not null" json:"ingredient_name"`
	IngredientID   *uint   `json:"ingredient_id,omitempty"` // nil until resolved
	PrepActionID   string  `json:"prep_action_id,omitempty"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	Notes          string  `json:"notes"`
}
