package models

import (
	"gorm.io/gorm"
)

// ProductVariant is one package size and price for a purchased ingredient.
type ProductVariant struct {
	gorm.Model
	IngredientID     uint    `gorm:"not null;index" json:"ingredient_id"`
	SizeML           float64 `json:"size_ml"`
	PurchaseQuantity float64 `json:"purchase_quantity"`
	PurchaseUnit     string  `json:"purchase_unit"`
	PurchasePrice    float64 `json:"purchase_price"`
	CasePrice        float64 `json:"case_price"`
	BottlesPerCase   int     `json:"bottles_per_case"`
	SKUNumber        string  `json:"sku_number"`
}
