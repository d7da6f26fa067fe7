package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	applog "backbar/internal/log"
	"backbar/internal/views/costsheet"
	"backbar/internal/views/layout"
	"backbar/internal/views/theme"
	"backbar/models"
)

type recipeLineRequest struct {
	IngredientName string  `json:"ingredient_name" validate:"required"`
	IngredientID   *uint   `json:"ingredient_id"`
	PrepActionID   string  `json:"prep_action_id"`
	Amount         float64 `json:"amount" validate:"gte=0"`
	Unit           string  `json:"unit"`
	Notes          string  `json:"notes"`
}

type recipeRequest struct {
	Name         string              `json:"name" validate:"required"`
	Category     string              `json:"category"`
	Description  string              `json:"description"`
	Instructions string              `json:"instructions"`
	Glassware    string              `json:"glassware"`
	Garnish      string              `json:"garnish"`
	MenuPrice    float64             `json:"menu_price" validate:"gte=0"`
	YieldAmount  float64             `json:"yield_amount" validate:"gte=0"`
	YieldUnit    string              `json:"yield_unit"`
	Ingredients  []recipeLineRequest `json:"ingredients" validate:"dive"`
}

func (p recipeRequest) model(id uint) *models.Recipe {
	recipe := &models.Recipe{
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Instructions: p.Instructions,
		Glassware:    p.Glassware,
		Garnish:      p.Garnish,
		MenuPrice:    p.MenuPrice,
		YieldAmount:  p.YieldAmount,
		YieldUnit:    p.YieldUnit,
	}
	recipe.ID = id
	for _, line := range p.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientName: line.IngredientName,
			IngredientID:   line.IngredientID,
			PrepActionID:   line.PrepActionID,
			Amount:         line.Amount,
			Unit:           line.Unit,
			Notes:          line.Notes,
		})
	}
	return recipe
}

// RecipeResource handles the recipe API, including cost breakdowns and the
// XLSX costing export.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if !requireService(w, r) {
		return
	}

	segments := resourcePath(r.URL.Path, "/app/api/recipes")
	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			saveRecipe(w, r, 0)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if segments[0] == "recompute" && len(segments) == 1 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		recomputeSubRecipes(w, r)
		return
	}

	id, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	if len(segments) > 1 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch segments[1] {
		case "cost":
			recipeCost(w, r, id)
		case "costing.xlsx":
			exportRecipeCosting(w, r, id)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, id)
	case http.MethodPut:
		saveRecipe(w, r, id)
	case http.MethodDelete:
		deleteRecipe(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := service.ListRecipes(r.Context())
	if err != nil {
		writeCatalogError(w, r, err, "unable to load recipes")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func showRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	recipe, err := service.GetRecipe(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to load recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func saveRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	var payload recipeRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, payloadMessage(err))
		return
	}

	recipe := payload.model(id)
	if err := service.SaveRecipe(r.Context(), recipe); err != nil {
		writeCatalogError(w, r, err, "unable to save recipe")
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
		applog.Info(r.Context(), "recipe created", "recipe_id", recipe.ID, "name", recipe.Name)
	}
	writeJSON(w, status, recipe)
}

func deleteRecipe(w http.ResponseWriter, r *http.Request, id uint) {
	if err := service.DeleteRecipe(r.Context(), id); err != nil {
		writeCatalogError(w, r, err, "unable to delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recomputeSubRecipes(w http.ResponseWriter, r *http.Request) {
	result, err := service.RecomputeSubRecipes(r.Context())
	if err != nil {
		writeCatalogError(w, r, err, "unable to recompute sub-recipes")
		return
	}
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}

func recipeCost(w http.ResponseWriter, r *http.Request, id uint) {
	summary, err := service.RecipeCost(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to cost recipe")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func exportRecipeCosting(w http.ResponseWriter, r *http.Request, id uint) {
	recipe, summary, err := service.CostSheet(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to cost recipe")
		return
	}

	var buf bytes.Buffer
	if err := costsheet.WriteXLSX(&buf, costsheet.NewSheet(recipe, summary)); err != nil {
		applog.Error(r.Context(), "failed to write costing workbook", "error", err, "recipe_id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to export costing")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="recipe-%d-costing.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		applog.Error(r.Context(), "failed to send costing workbook", "error", err)
	}
}

// RecipeCostingPage renders the HTML costing sheet at
// /app/recipes/{id}/costing. ?theme=print selects the printable styling.
func RecipeCostingPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireService(w, r) {
		return
	}

	segments := resourcePath(r.URL.Path, "/app/recipes")
	if len(segments) != 2 || segments[1] != "costing" {
		http.NotFound(w, r)
		return
	}
	id, ok := parseID(segments[0])
	if !ok {
		http.NotFound(w, r)
		return
	}

	recipe, summary, err := service.CostSheet(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err, "unable to cost recipe")
		return
	}
	sheetTheme := theme.Resolve(r.URL.Query().Get("theme"))
	renderComponent(w, r, layout.Page(recipe.Name+" costing", sheetTheme, costsheet.Sheet(costsheet.NewSheet(recipe, summary))))
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
