// Package units converts recipe quantities between volume, weight, count and
// ingredient specific units.
package units

import (
	"strings"
)

// Kind is the measurement family of a unit.
type Kind int

const (
	KindUnknown Kind = iota
	KindVolume
	KindWeight
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindVolume:
		return "volume"
	case KindWeight:
		return "weight"
	case KindCount:
		return "count"
	default:
		return "unknown"
	}
}

// Canonical unit names.
const (
	ML       = "ml"
	Liter    = "l"
	Ounce    = "oz"
	CL       = "cl"
	Quart    = "qt"
	Gallon   = "gallon"
	Tsp      = "tsp"
	Tbsp     = "tbsp"
	Dash     = "dash"
	Cup      = "cup"
	Barspoon = "barspoon"

	Gram        = "g"
	Kilogram    = "kg"
	Milligram   = "mg"
	Pound       = "lb"
	WeightOunce = "oz wt"

	Each = "each"

	// Top is "top with": an unquantified pour that is never costed.
	Top = "top"
)

const (
	mlPerOunce      = 29.5735
	gramsPerOunceWt = 28.3495
)

type definition struct {
	kind Kind
	// size of one unit in the family's base unit (ml, g or each)
	factor float64
}

var definitions = map[string]definition{
	ML:       {KindVolume, 1},
	Liter:    {KindVolume, 1000},
	Ounce:    {KindVolume, mlPerOunce},
	CL:       {KindVolume, 10},
	Quart:    {KindVolume, 32 * mlPerOunce},
	Gallon:   {KindVolume, 128 * mlPerOunce},
	Tsp:      {KindVolume, 5},
	Tbsp:     {KindVolume, 15},
	Dash:     {KindVolume, 0.625},
	Cup:      {KindVolume, 236.588},
	Barspoon: {KindVolume, 5},

	Gram:        {KindWeight, 1},
	Kilogram:    {KindWeight, 1000},
	Milligram:   {KindWeight, 0.001},
	Pound:       {KindWeight, 16 * gramsPerOunceWt},
	WeightOunce: {KindWeight, gramsPerOunceWt},

	Each: {KindCount, 1},
}

var aliases = map[string]string{
	"milliliter": ML, "milliliters": ML, "millilitre": ML, "millilitres": ML, "mls": ML,
	"liter": Liter, "liters": Liter, "litre": Liter, "litres": Liter, "ltr": Liter,
	"ounce": Ounce, "ounces": Ounce, "fl oz": Ounce, "fl. oz": Ounce, "floz": Ounce, "fl-oz": Ounce, "fluid ounce": Ounce, "fluid ounces": Ounce,
	"centiliter": CL, "centiliters": CL, "centilitre": CL,
	"quart": Quart, "quarts": Quart, "qts": Quart,
	"gal": Gallon, "gallons": Gallon,
	"teaspoon": Tsp, "teaspoons": Tsp,
	"tablespoon": Tbsp, "tablespoons": Tbsp, "tbs": Tbsp,
	"dashes":    Dash,
	"cups":      Cup,
	"barspoons": Barspoon, "bsp": Barspoon, "bar spoon": Barspoon, "bar spoons": Barspoon,
	"gram": Gram, "grams": Gram, "gr": Gram,
	"kilogram": Kilogram, "kilograms": Kilogram, "kgs": Kilogram,
	"milligram": Milligram, "milligrams": Milligram,
	"lbs": Pound, "pound": Pound, "pounds": Pound,
	"oz (weight)": WeightOunce, "ozwt": WeightOunce, "oz weight": WeightOunce,
	"ea": Each, "unit": Each, "units": Each, "piece": Each, "pieces": Each, "pc": Each, "pcs": Each,
	"whole": Each, "count": Each, "ct": Each,
	"top up": Top, "top with": Top,
}

// Canonical trims, lowercases and resolves known aliases. Unknown units are
// returned lowercased so custom conversions can still match them.
func Canonical(unit string) string {
	u := strings.ToLower(strings.Join(strings.Fields(unit), " "))
	if u == "" {
		return ""
	}
	if _, ok := definitions[u]; ok {
		return u
	}
	if canonical, ok := aliases[u]; ok {
		return canonical
	}
	return u
}

// KindOf returns the measurement family of a built-in unit.
func KindOf(unit string) Kind {
	if def, ok := definitions[Canonical(unit)]; ok {
		return def.kind
	}
	return KindUnknown
}

// IsBuiltin reports whether unit has a built-in conversion factor.
func IsBuiltin(unit string) bool {
	_, ok := definitions[Canonical(unit)]
	return ok
}

// IsTop reports whether the unit is the unquantified "top" pour.
func IsTop(unit string) bool {
	return Canonical(unit) == Top
}

// Volumes returns the built-in volume units.
func Volumes() []string {
	return []string{ML, Liter, Ounce, CL, Quart, Gallon, Tsp, Tbsp, Dash, Cup, Barspoon}
}
