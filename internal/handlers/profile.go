package handlers

import (
	"net/http"

	"gorm.io/datatypes"

	"backbar/internal/ai"
	applog "backbar/internal/log"
	"backbar/internal/naming"
	"backbar/models"
)

const aiUnavailableMessage = "AI integration is not configured. Set OPENAI_API_KEY to enable this tool."

type profileRequest struct {
	Name string `json:"name" validate:"required"`
}

type profileResponse struct {
	Ingredient *models.Ingredient   `json:"ingredient"`
	Created    bool                 `json:"created"`
	Profile    ai.IngredientProfile `json:"profile"`
}

// IngredientProfile asks the assistant to describe an ingredient and stores
// the result, creating the ingredient when the catalog has no match.
func IngredientProfile(w http.ResponseWriter, r *http.Request) {
	if assistant == nil {
		writeJSONError(w, http.StatusServiceUnavailable, aiUnavailableMessage)
		return
	}

	var payload profileRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	ctx := r.Context()
	profile, err := assistant.FetchIngredientProfile(ctx, payload.Name)
	if err != nil {
		applog.Error(ctx, "ingredient profile lookup failed", "error", err, "ingredient", payload.Name)
		writeJSONError(w, http.StatusBadGateway, "We couldn't look up that ingredient. Please try again.")
		return
	}

	existing, err := service.FindIngredient(ctx, payload.Name)
	if err != nil {
		writeCatalogError(w, r, err, "unable to load ingredients")
		return
	}

	if existing != nil {
		patch := map[string]any{"abv": profile.ABV}
		if profile.Category != "" {
			patch["category"] = profile.Category
		}
		if profile.SpiritType != "" {
			patch["spirit_type"] = profile.SpiritType
		}
		if len(profile.Aliases) > 0 {
			patch["aliases"] = datatypes.NewJSONSlice(mergeAliases(existing.Aliases, profile.Aliases))
		}
		updated, err := service.UpdateIngredient(ctx, existing.ID, patch)
		if err != nil {
			writeCatalogError(w, r, err, "unable to update ingredient")
			return
		}
		writeJSON(w, http.StatusOK, profileResponse{Ingredient: updated, Profile: profile})
		return
	}

	ingredient := &models.Ingredient{
		Name:       payload.Name,
		Category:   profile.Category,
		SpiritType: profile.SpiritType,
		ABV:        profile.ABV,
		Aliases:    profile.Aliases,
	}
	if profile.DensityGPerML > 0 {
		ingredient.DensityValue = profile.DensityGPerML
		ingredient.DensityUnit = "g/ml"
	}
	if err := service.CreateIngredient(ctx, ingredient); err != nil {
		writeCatalogError(w, r, err, "unable to create ingredient")
		return
	}
	applog.Info(ctx, "ingredient created from profile", "ingredient_id", ingredient.ID, "name", ingredient.Name)
	writeJSON(w, http.StatusCreated, profileResponse{Ingredient: ingredient, Created: true, Profile: profile})
}

func mergeAliases(current, suggested []string) []string {
	seen := make(map[string]struct{}, len(current)+len(suggested))
	merged := make([]string, 0, len(current)+len(suggested))
	for _, alias := range append(append([]string{}, current...), suggested...) {
		key := naming.Key(alias)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, alias)
	}
	return merged
}
