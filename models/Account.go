package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	RoleManager   = "manager"
	RoleBartender = "bartender"
)

// Account represents a back-office login that can manage the recipe catalog.
type Account struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Venue        string `json:"venue"`
	Role         string `gorm:"type:varchar(32);default:manager" json:"role"`
}

// NormalizeRole returns a known role, defaulting to manager.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleBartender:
		return RoleBartender
	default:
		return RoleManager
	}
}

// CanEditCosts reports whether the role may change pricing data.
func (a Account) CanEditCosts() bool {
	return NormalizeRole(a.Role) == RoleManager
}
