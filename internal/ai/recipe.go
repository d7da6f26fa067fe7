package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	applog "backbar/internal/log"
)

// RecipeImportInput describes the source provided by the user when importing
// a recipe.
type RecipeImportInput struct {
	NameHint   string
	RawText    string
	Base64File string
	FileName   string
	FileType   string
}

// ParsedRecipe is a recipe read by the model, coerced to safe defaults.
type ParsedRecipe struct {
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	Description  string             `json:"description"`
	Instructions string             `json:"instructions"`
	Glassware    string             `json:"glassware"`
	Garnish      string             `json:"garnish"`
	YieldAmount  float64            `json:"yield_amount"`
	YieldUnit    string             `json:"yield_unit"`
	Ingredients  []ParsedIngredient `json:"ingredients"`
}

// ParsedIngredient is one line of a parsed recipe.
type ParsedIngredient struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	PrepAction string  `json:"prep_action"`
	Notes      string  `json:"notes"`
}

// RecipeSchema is the JSON schema sent with recipe parsing prompts.
var RecipeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":         map[string]any{"type": "string"},
		"category":     map[string]any{"type": "string"},
		"description":  map[string]any{"type": "string"},
		"instructions": map[string]any{"type": "string"},
		"glassware":    map[string]any{"type": "string"},
		"garnish":      map[string]any{"type": "string"},
		"yield_amount": map[string]any{"type": "number"},
		"yield_unit":   map[string]any{"type": "string"},
		"ingredients": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": "string"},
					"amount":      map[string]any{"type": "number"},
					"unit":        map[string]any{"type": "string"},
					"prep_action": map[string]any{"type": "string"},
					"notes":       map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
	},
	"required": []string{"name", "ingredients"},
}

// ParseRecipe asks the model to read a recipe from text or a file. Output
// that does not decode is logged and coerced to an empty recipe.
func (c *Client) ParseRecipe(ctx context.Context, input RecipeImportInput) (ParsedRecipe, error) {
	trimmedText := strings.TrimSpace(input.RawText)
	if trimmedText == "" && strings.TrimSpace(input.Base64File) == "" {
		return ParsedRecipe{}, errors.New("ai: recipe import requires text or file content")
	}

	if input.Base64File != "" {
		if _, err := base64.StdEncoding.DecodeString(input.Base64File); err != nil {
			return ParsedRecipe{}, fmt.Errorf("ai: invalid base64 payload: %w", err)
		}
	}

	raw, err := c.Invoke(ctx, "parse_recipe", buildRecipePrompt(input), RecipeSchema)
	if err != nil {
		if !errors.Is(err, ErrMalformedOutput) {
			return ParsedRecipe{}, err
		}
		applog.Warn(ctx, "model returned malformed recipe", "error", err)
	}

	parsed := DecodeRecipe(raw)
	if parsed.Name == "" {
		parsed.Name = normaliseText(input.NameHint)
	}
	return parsed, nil
}

func buildRecipePrompt(input RecipeImportInput) string {
	var builder strings.Builder
	builder.WriteString(`Extract the cocktail or prep recipe below.
- Keep ingredient names as written, without brand marketing copy.
- Put preparation words such as "juice", "zest" or "peel" in prep_action when the source names a fruit.
- Use bar units: oz, ml, cl, dash, barspoon, tsp, tbsp, cup, g, each, or "top" for a top-up.
- amount is a number; write fractions as decimals.
- If the text is a batch or sub-recipe, fill yield_amount and yield_unit.
`)
	if hint := strings.TrimSpace(input.NameHint); hint != "" {
		builder.WriteString("\nRecipe name hint: ")
		builder.WriteString(hint)
		builder.WriteString("\n")
	}
	if text := strings.TrimSpace(input.RawText); text != "" {
		builder.WriteString("\nRecipe text:\n")
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	if strings.TrimSpace(input.Base64File) != "" {
		builder.WriteString("\nBase64 file metadata: ")
		if input.FileName != "" {
			builder.WriteString(fmt.Sprintf("name=%s ", input.FileName))
		}
		if input.FileType != "" {
			builder.WriteString(fmt.Sprintf("type=%s ", input.FileType))
		}
		builder.WriteString("\n")
		builder.WriteString(input.Base64File)
	}
	return builder.String()
}

// DecodeRecipe coerces a decoded model response. Missing lists become empty,
// missing or non-numeric numbers become 0 and lines without a name are
// dropped.
func DecodeRecipe(raw map[string]any) ParsedRecipe {
	parsed := ParsedRecipe{
		Name:         asString(raw["name"]),
		Category:     asString(raw["category"]),
		Description:  asString(raw["description"]),
		Instructions: asString(raw["instructions"]),
		Glassware:    asString(raw["glassware"]),
		Garnish:      asString(raw["garnish"]),
		YieldAmount:  nonNegative(parseNumeric(raw["yield_amount"])),
		YieldUnit:    asString(raw["yield_unit"]),
		Ingredients:  []ParsedIngredient{},
	}

	for _, entry := range asSlice(raw["ingredients"]) {
		line := asObject(entry)
		name := asString(line["name"])
		if name == "" {
			name = asString(line["ingredient_name"])
		}
		if name == "" {
			continue
		}
		parsed.Ingredients = append(parsed.Ingredients, ParsedIngredient{
			Name:       name,
			Amount:     nonNegative(parseNumeric(line["amount"])),
			Unit:       asString(line["unit"]),
			PrepAction: asString(line["prep_action"]),
			Notes:      asString(line["notes"]),
		})
	}
	return parsed
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
