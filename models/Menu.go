package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Menu struct {
	gorm.Model
	Name      string                    `gorm:"not null" json:"name"`
	Notes     string                    `gorm:"type:text" json:"notes"`
	Active    bool                      `gorm:"not null;default:true" json:"active"`
	RecipeIDs datatypes.JSONSlice[uint] `json:"recipe_ids"`
}
