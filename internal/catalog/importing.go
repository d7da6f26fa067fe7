package catalog

import (
	"context"
	"fmt"
	"strings"

	"backbar/internal/ai"
	"backbar/internal/costing"
	applog "backbar/internal/log"
	"backbar/internal/matching"
	"backbar/internal/metrics"
	"backbar/internal/naming"
	"backbar/internal/units"
	"backbar/models"
)

type LineStatus string

const (
	LineMatched LineStatus = "matched"
	LineNew     LineStatus = "new"
	LineExempt  LineStatus = "exempt"
)

// ImportLine is one parsed ingredient with its ranked catalog candidates.
type ImportLine struct {
	Parsed     ai.ParsedIngredient     `json:"parsed"`
	Status     LineStatus              `json:"status"`
	Selected   *matching.Candidate     `json:"selected,omitempty"`
	Candidates []matching.Candidate    `json:"candidates"`
	Line       models.RecipeIngredient `json:"line"`
	Error      string                  `json:"error,omitempty"`
}

// ImportPreview is a draft recipe built from AI output. Nothing is stored.
type ImportPreview struct {
	Recipe     models.Recipe   `json:"recipe"`
	Lines      []ImportLine    `json:"lines"`
	Unresolved int             `json:"unresolved"`
	Cost       costing.Summary `json:"cost"`
}

// PreviewImport matches every parsed line against the catalog. Lines whose
// best candidate scores above the suggest threshold are mapped to it; the rest
// are flagged as new ingredients.
func (s *Service) PreviewImport(ctx context.Context, parsed ai.ParsedRecipe) (ImportPreview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ImportPreview{}, err
	}
	tuning := s.matcher.Tuning()

	preview := ImportPreview{
		Recipe: models.Recipe{
			Name:         naming.Normalize(parsed.Name),
			Category:     parsed.Category,
			Description:  parsed.Description,
			Instructions: parsed.Instructions,
			Glassware:    parsed.Glassware,
			Garnish:      parsed.Garnish,
			YieldAmount:  parsed.YieldAmount,
			YieldUnit:    units.Canonical(parsed.YieldUnit),
		},
	}

	for _, ingredient := range parsed.Ingredients {
		name := naming.Normalize(ingredient.Name)
		if name == "" {
			continue
		}
		line := ImportLine{
			Parsed: ingredient,
			Line: models.RecipeIngredient{
				Position:       len(preview.Lines),
				IngredientName: name,
				Amount:         ingredient.Amount,
				Unit:           units.Canonical(ingredient.Unit),
				Notes:          ingredient.Notes,
			},
		}

		switch {
		case costing.IsExempt(name):
			line.Status = LineExempt
		default:
			query := name
			if action := strings.TrimSpace(ingredient.PrepAction); action != "" {
				query = name + ", " + action
			}
			line.Candidates = s.matcher.Match(query, snap.Ingredients, tuning.BroadThreshold)
			top := 0.0
			if len(line.Candidates) > 0 {
				top = line.Candidates[0].Confidence
			}
			metrics.ObserveMatch(top)

			if len(line.Candidates) > 0 && top > tuning.SuggestThreshold {
				best := line.Candidates[0]
				line.Status = LineMatched
				line.Selected = &best
				id := best.Ingredient.ID
				line.Line.IngredientID = &id
				line.Line.IngredientName = best.Ingredient.Name
				if best.PrepAction != nil {
					line.Line.PrepActionID = best.PrepAction.ID
					if line.Line.PrepActionID == "" {
						line.Line.PrepActionID = best.PrepAction.Name
					}
				}
			} else {
				line.Status = LineNew
				line.Error = fmt.Sprintf("%q: %v", name, ErrUnresolvedIngredient)
				preview.Unresolved++
			}
		}

		preview.Lines = append(preview.Lines, line)
		preview.Recipe.Ingredients = append(preview.Recipe.Ingredients, line.Line)
	}

	preview.Cost = snap.Resolver().RecipeCost(&preview.Recipe)
	applog.Info(ctx, "recipe import previewed", "recipe", preview.Recipe.Name, "lines", len(preview.Lines), "unresolved", preview.Unresolved)
	return preview, nil
}

// PriceRow is one supplier price list entry.
type PriceRow struct {
	Name             string
	Category         string
	SpiritType       string
	Unit             string
	PurchasePrice    float64
	PurchaseQuantity float64
	PurchaseUnit     string
	CasePrice        float64
	BottlesPerCase   int
	ABV              float64
}

// ImportPrices upserts purchased ingredients by normalised name. Existing
// ingredients get their purchasing fields replaced and their cost
// refreshed.
func (s *Service) ImportPrices(ctx context.Context, rows []PriceRow) (BatchResult, error) {
	var result BatchResult
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return result, err
	}
	idx := naming.NewIngredientIndex(ingredients)

	for _, row := range rows {
		name := naming.Normalize(row.Name)
		if name == "" {
			result.record("import_prices", 0, row.Name, ErrInvalidName)
			continue
		}

		var id uint
		var err error
		if existing := idx.ByName(name); existing != nil {
			id = existing.ID
			_, err = s.UpdateIngredient(ctx, id, priceRowPatch(row))
		} else {
			ingredient := &models.Ingredient{
				Name:             name,
				Category:         row.Category,
				SpiritType:       row.SpiritType,
				Unit:             row.Unit,
				PurchasePrice:    row.PurchasePrice,
				PurchaseQuantity: row.PurchaseQuantity,
				PurchaseUnit:     units.Canonical(row.PurchaseUnit),
				CasePrice:        row.CasePrice,
				BottlesPerCase:   row.BottlesPerCase,
				UseCasePricing:   row.CasePrice > 0 && row.BottlesPerCase > 0,
				ABV:              row.ABV,
			}
			err = s.CreateIngredient(ctx, ingredient)
			id = ingredient.ID
		}
		if err != nil {
			applog.Error(ctx, "failed to import price row", "name", name, "error", err)
		}
		result.record("import_prices", id, name, err)
	}
	return result, nil
}

func priceRowPatch(row PriceRow) map[string]any {
	patch := map[string]any{
		"purchase_price":    row.PurchasePrice,
		"purchase_quantity": row.PurchaseQuantity,
		"purchase_unit":     units.Canonical(row.PurchaseUnit),
		"case_price":        row.CasePrice,
		"bottles_per_case":  row.BottlesPerCase,
		"use_case_pricing":  row.CasePrice > 0 && row.BottlesPerCase > 0,
	}
	if row.Category != "" {
		patch["category"] = row.Category
	}
	if row.SpiritType != "" {
		patch["spirit_type"] = row.SpiritType
	}
	if row.Unit != "" {
		patch["unit"] = row.Unit
	}
	if row.ABV > 0 {
		patch["abv"] = row.ABV
	}
	return patch
}
