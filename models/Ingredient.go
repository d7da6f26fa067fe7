package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	IngredientTypePurchased = "purchased"
	IngredientTypeSubRecipe = "sub_recipe"
)

type Ingredient struct {
	gorm.Model
	Name           string  `gorm:"not null;index" json:"name"`
	Category       string  `json:"category"`
	SpiritType     string  `json:"spirit_type"`
	Unit           string  `gorm:"not null;default:oz" json:"unit"` // base costing unit
	CostPerUnit    float64 `gorm:"not null;default:0" json:"cost_per_unit"`
	IngredientType string  `gorm:"not null;default:purchased" json:"ingredient_type"`

	// --- Purchasing ---
	PurchasePrice    float64 `json:"purchase_price"`
	PurchaseQuantity float64 `json:"purchase_quantity"`
	PurchaseUnit     string  `json:"purchase_unit"`
	CasePrice        float64 `json:"case_price"`
	BottlesPerCase   int     `json:"bottles_per_case"`
	UseCasePricing   bool    `gorm:"not null;default:false" json:"use_case_pricing"`

	CustomConversions datatypes.JSONSlice[CustomConversion] `json:"custom_conversions"`
	DensityValue      float64                               `json:"density_value"`
	DensityUnit       string                                `json:"density_unit"` // e.g. "g/ml"
	ABV               float64                               `json:"abv"`

	// Set when the ingredient is produced by a sub-recipe.
	SubRecipeID *uint `json:"sub_recipe_id,omitempty"`

	PrepActions datatypes.JSONSlice[PrepAction] `json:"prep_actions"`
	Aliases     datatypes.JSONSlice[string]     `json:"aliases"`
	ImageURL    string                          `json:"image_url"`

	Variants []ProductVariant `gorm:"foreignKey:IngredientID" json:"variants,omitempty"`
}

// CustomConversion declares an ingredient specific unit relationship such as
// "1 stalk = 4 oz".
type CustomConversion struct {
	FromAmount       float64 `json:"from_amount"`
	FromUnit         string  `json:"from_unit"`
	ToAmount         float64 `json:"to_amount"`
	ToUnit           string  `json:"to_unit"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// Ratio returns how many ToUnit one FromUnit is worth, or 0 when undefined.
func (c CustomConversion) Ratio() float64 {
	if c.FromAmount > 0 && c.ToAmount > 0 {
		return c.ToAmount / c.FromAmount
	}
	if c.ConversionFactor > 0 {
		return c.ConversionFactor
	}
	return 0
}

// PrepAction describes the usable yield of a prepared form, e.g. "juice"
// yields 1.5 oz per purchase unit of lemon.
type PrepAction struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	YieldAmount float64 `json:"yield_amount"`
	YieldUnit   string  `json:"yield_unit"`
}

// IsSubRecipe reports whether the ingredient is produced in house.
func (i Ingredient) IsSubRecipe() bool {
	return strings.EqualFold(strings.TrimSpace(i.IngredientType), IngredientTypeSubRecipe)
}

// FindPrepAction looks up a prep action by id, then by case-insensitive name.
func (i Ingredient) FindPrepAction(ref string) (PrepAction, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PrepAction{}, false
	}
	for _, action := range i.PrepActions {
		if action.ID != "" && action.ID == ref {
			return action, true
		}
	}
	for _, action := range i.PrepActions {
		if strings.EqualFold(strings.TrimSpace(action.Name), ref) {
			return action, true
		}
	}
	return PrepAction{}, false
}
