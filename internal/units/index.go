package units

import (
	"sort"
	"strings"

	"backbar/models"
)

// Preset is a custom conversion offered for a non built-in unit.
type Preset struct {
	IngredientID   uint
	IngredientName string
	Conversion     models.CustomConversion
}

// CustomUnitIndex maps a canonical custom unit to the conversions that
// define it. It is rebuilt from a snapshot, never patched in place.
type CustomUnitIndex map[string][]Preset

// BuildCustomUnitIndex indexes every custom unit declared by the ingredients.
func BuildCustomUnitIndex(ingredients []models.Ingredient) CustomUnitIndex {
	index := CustomUnitIndex{}
	for _, ingredient := range ingredients {
		for _, conv := range ingredient.CustomConversions {
			if conv.Ratio() <= 0 {
				continue
			}
			preset := Preset{
				IngredientID:   ingredient.ID,
				IngredientName: strings.TrimSpace(ingredient.Name),
				Conversion:     conv,
			}
			seen := map[string]struct{}{}
			for _, unit := range []string{conv.FromUnit, conv.ToUnit} {
				key := Canonical(unit)
				if key == "" || IsBuiltin(key) {
					continue
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				index[key] = append(index[key], preset)
			}
		}
	}

	for key := range index {
		presets := index[key]
		sort.SliceStable(presets, func(i, j int) bool {
			a, b := strings.ToLower(presets[i].IngredientName), strings.ToLower(presets[j].IngredientName)
			if a != b {
				return a < b
			}
			return presets[i].IngredientID < presets[j].IngredientID
		})
	}
	return index
}

// Units returns the indexed custom units in sorted order.
func (idx CustomUnitIndex) Units() []string {
	result := make([]string, 0, len(idx))
	for unit := range idx {
		result = append(result, unit)
	}
	sort.Strings(result)
	return result
}

// Lookup returns the presets defining unit.
func (idx CustomUnitIndex) Lookup(unit string) []Preset {
	return idx[Canonical(unit)]
}
