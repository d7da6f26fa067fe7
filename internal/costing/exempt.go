package costing

import "backbar/internal/naming"

// exempt ingredients are free to pour and never block a recipe from being
// fully costed.
var exempt = map[string]struct{}{
	"water":           {},
	"tap water":       {},
	"filtered water":  {},
	"hot water":       {},
	"boiling water":   {},
	"sparkling water": {},
	"soda water":      {},
	"club soda":       {},
	"seltzer":         {},
	"ice":             {},
	"crushed ice":     {},
	"cubed ice":       {},
	"ice cubes":       {},
	"pebble ice":      {},
}

// IsExempt reports whether name is on the free-pour list.
func IsExempt(name string) bool {
	_, ok := exempt[naming.Key(name)]
	return ok
}
