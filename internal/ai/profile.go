package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applog "backbar/internal/log"
)

// IngredientProfile is catalog data suggested by the model for a new
// ingredient.
type IngredientProfile struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	SpiritType    string   `json:"spirit_type"`
	ABV           float64  `json:"abv"`
	Aliases       []string `json:"aliases"`
	DensityGPerML float64  `json:"density_g_per_ml"`
	Notes         string   `json:"notes"`
}

var profileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":             map[string]any{"type": "string"},
		"category":         map[string]any{"type": "string"},
		"spirit_type":      map[string]any{"type": "string"},
		"abv":              map[string]any{"type": "number"},
		"aliases":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"density_g_per_ml": map[string]any{"type": "number"},
		"notes":            map[string]any{"type": "string"},
	},
	"required": []string{"name"},
}

// FetchIngredientProfile asks the model to describe a bar ingredient.
func (c *Client) FetchIngredientProfile(ctx context.Context, ingredient string) (IngredientProfile, error) {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return IngredientProfile{}, errors.New("ai: ingredient name must not be empty")
	}

	prompt := fmt.Sprintf(`Describe the bar ingredient %q.
- category: one of Spirits, Liqueurs, Wine, Beer, Juice, Syrup, Bitters, Dairy, Produce, Garnish, Mixer, Other.
- spirit_type: base spirit (gin, rum, whiskey...) or "" when not a spirit.
- abv: alcohol by volume in percent, 0 for non-alcoholic.
- aliases: other names bartenders use; omit unverified ones.
- density_g_per_ml: only for syrups, sugars and powders, else 0.
Use empty strings instead of unknown text.`, ingredient)

	raw, err := c.Invoke(ctx, "ingredient_profile", prompt, profileSchema)
	if err != nil {
		if !errors.Is(err, ErrMalformedOutput) {
			return IngredientProfile{}, err
		}
		applog.Warn(ctx, "model returned malformed ingredient profile", "ingredient", ingredient, "error", err)
	}
	return DecodeProfile(ingredient, raw), nil
}

// DecodeProfile coerces a decoded profile response. ABV is clamped to
// 0..100 and the requested name is used when the model omits one.
func DecodeProfile(requestedName string, raw map[string]any) IngredientProfile {
	name := asString(raw["name"])
	if name == "" {
		name = normaliseText(requestedName)
	}
	abv := parseNumeric(raw["abv"])
	switch {
	case abv < 0:
		abv = 0
	case abv > 100:
		abv = 100
	}
	return IngredientProfile{
		Name:          name,
		Category:      asString(raw["category"]),
		SpiritType:    asString(raw["spirit_type"]),
		ABV:           abv,
		Aliases:       sanitiseNames(raw["aliases"], name),
		DensityGPerML: nonNegative(parseNumeric(raw["density_g_per_ml"])),
		Notes:         asString(raw["notes"]),
	}
}
