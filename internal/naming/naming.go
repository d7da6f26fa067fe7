// Package naming canonicalises ingredient names and keeps recipe lines in
// step with ingredient renames.
package naming

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"backbar/models"
)

var (
	upper = cases.Upper(language.English)
	lower = cases.Lower(language.English)
)

// Normalize trims, collapses whitespace and title-cases every word. Only the
// first letter of a whitespace-separated word is raised, so "st-germain"
// becomes "St-germain". It is the form written to storage; compare names
// with Key instead.
func Normalize(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	for i, field := range fields {
		_, size := utf8.DecodeRuneInString(field)
		fields[i] = upper.String(field[:size]) + lower.String(field[size:])
	}
	return strings.Join(fields, " ")
}

// Key returns the case-folded, whitespace-collapsed comparison key.
func Key(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// Equal compares names case-insensitively, ignoring surrounding whitespace.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// PropagateRename rewrites every recipe line naming oldName to the
// normalised newName. Only recipes with at least one rewritten line are
// returned; the input is left untouched. A rename that is a no-op after
// normalisation returns nothing.
func PropagateRename(oldName, newName string, recipes []models.Recipe) []models.Recipe {
	oldKey := Key(oldName)
	canonical := Normalize(newName)
	if oldKey == "" || canonical == "" || Normalize(oldName) == canonical {
		return nil
	}

	var updated []models.Recipe
	for _, recipe := range recipes {
		lines := make([]models.RecipeIngredient, len(recipe.Ingredients))
		copy(lines, recipe.Ingredients)

		changed := false
		for i := range lines {
			if Key(lines[i].IngredientName) != oldKey || lines[i].IngredientName == canonical {
				continue
			}
			lines[i].IngredientName = canonical
			changed = true
		}
		if !changed {
			continue
		}
		recipe.Ingredients = lines
		updated = append(updated, recipe)
	}
	return updated
}
