package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"backbar/internal/catalog"
	"backbar/internal/costing"
	"backbar/models"
)

func TestRecipeResourceCreateAndCost(t *testing.T) {
	withTestDatabase(t)

	payload := recipeRequest{
		Name:      "gimlet",
		Category:  "Cocktails",
		MenuPrice: 12,
		Ingredients: []recipeLineRequest{
			{IngredientName: "london dry gin", Amount: 2, Unit: "oz"},
			{IngredientName: "Lime", PrepActionID: "juice", Amount: 0.75, Unit: "oz"},
			{IngredientName: "Simple Syrup", Amount: 0.5, Unit: "oz"},
			{IngredientName: "Yuzu Cordial", Amount: 0.25, Unit: "oz"},
		},
	}
	rec := httptest.NewRecorder()
	RecipeResource(rec, jsonRequest(t, http.MethodPost, "/app/api/recipes", payload))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Recipe
	decodeBody(t, rec, &created)
	if created.ID == 0 || created.Name != "Gimlet" {
		t.Fatalf("unexpected recipe %+v", created)
	}
	if len(created.Ingredients) != 4 || created.Ingredients[0].IngredientName != "London Dry Gin" {
		t.Fatalf("expected lines linked to catalog names, got %+v", created.Ingredients)
	}
	if created.ABV <= 0 {
		t.Fatalf("expected an ABV estimate, got %v", created.ABV)
	}

	rec = httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/api/recipes/%d/cost", created.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary costing.Summary
	decodeBody(t, rec, &summary)
	if summary.FullyCosted || summary.Unresolved != 1 {
		t.Fatalf("expected the cordial to stay unresolved, got %+v", summary)
	}
	if summary.Total <= 0 || summary.PourCostPercent <= 0 {
		t.Fatalf("expected a priced total, got %+v", summary)
	}
	last := summary.Lines[3]
	if last.Outcome != costing.OutcomeUnresolved || !last.NeedsCostAttention || last.Cost != 0 {
		t.Fatalf("unexpected unresolved line %+v", last)
	}
}

func TestRecipeResourceUpdateAndDelete(t *testing.T) {
	db := withTestDatabase(t)
	id := findRecipeID(t, db, "Negroni")
	target := fmt.Sprintf("/app/api/recipes/%d", id)

	payload := recipeRequest{
		Name:      "Negroni",
		Category:  "Cocktails",
		MenuPrice: 15,
		Ingredients: []recipeLineRequest{
			{IngredientName: "Campari", Amount: 1, Unit: "oz"},
			{IngredientName: "London Dry Gin", Amount: 1, Unit: "oz"},
		},
	}
	rec := httptest.NewRecorder()
	RecipeResource(rec, jsonRequest(t, http.MethodPut, target, payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var stored models.Recipe
	decodeBody(t, rec, &stored)
	if len(stored.Ingredients) != 2 || stored.Ingredients[0].IngredientName != "Campari" || stored.MenuPrice != 15 {
		t.Fatalf("unexpected stored recipe %+v", stored)
	}

	rec = httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodDelete, target, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestRecipeResourceRenamesSubRecipe(t *testing.T) {
	db := withTestDatabase(t)
	id := findRecipeID(t, db, "Simple Syrup")
	target := fmt.Sprintf("/app/api/recipes/%d", id)

	payload := recipeRequest{
		Name:        "Rich Syrup",
		Category:    "Syrups",
		YieldAmount: 24,
		YieldUnit:   "oz",
		Ingredients: []recipeLineRequest{
			{IngredientName: "Sugar", Amount: 2, Unit: "cup"},
			{IngredientName: "Hot Water", Amount: 2, Unit: "cup"},
		},
	}
	rec := httptest.NewRecorder()
	RecipeResource(rec, jsonRequest(t, http.MethodPut, target, payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/api/recipes/%d", findRecipeID(t, db, "Daiquiri")), nil))
	var daiquiri models.Recipe
	decodeBody(t, rec, &daiquiri)
	if got := daiquiri.Ingredients[2].IngredientName; got != "Rich Syrup" {
		t.Fatalf("expected the daiquiri line to follow the rename, got %q", got)
	}
	if findIngredientID(t, db, "Rich Syrup") == 0 {
		t.Fatal("expected the linked ingredient to be renamed")
	}

	payload.Name = "campari"
	rec = httptest.NewRecorder()
	RecipeResource(rec, jsonRequest(t, http.MethodPut, target, payload))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a clashing name, got %d: %s", rec.Code, rec.Body.String())
	}
	if findRecipeID(t, db, "Rich Syrup") != id {
		t.Fatal("expected the rejected rename to leave the recipe untouched")
	}
}

func TestRecipeResourceRejectsInvalidPayload(t *testing.T) {
	withTestDatabase(t)

	rec := httptest.NewRecorder()
	RecipeResource(rec, jsonRequest(t, http.MethodPost, "/app/api/recipes", recipeRequest{
		Name:        "Broken",
		Ingredients: []recipeLineRequest{{Amount: 1, Unit: "oz"}},
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a line without a name, got %d", rec.Code)
	}
}

func TestRecipeResourceRecompute(t *testing.T) {
	withTestDatabase(t)

	rec := httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodPost, "/app/api/recipes/recompute", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result catalog.BatchResult
	decodeBody(t, rec, &result)
	if len(result.Items) != 2 || !result.OK() {
		t.Fatalf("expected both sub-recipes recomputed, got %+v", result)
	}
}

func TestRecipeCostingExport(t *testing.T) {
	db := withTestDatabase(t)
	id := findRecipeID(t, db, "Gin Rickey")

	rec := httptest.NewRecorder()
	RecipeResource(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/api/recipes/%d/costing.xlsx", id), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	name, err := f.GetCellValue("Costing", "A1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if name != "Gin Rickey" {
		t.Fatalf("unexpected workbook title %q", name)
	}
}

func TestRecipeCostingPage(t *testing.T) {
	db := withTestDatabase(t)
	id := findRecipeID(t, db, "Old Fashioned")

	rec := httptest.NewRecorder()
	RecipeCostingPage(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/recipes/%d/costing", id), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Old Fashioned", "Bourbon", "Angostura Bitters"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in costing page", want)
		}
	}

	rec = httptest.NewRecorder()
	RecipeCostingPage(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/recipes/%d/costing?theme=print", id), nil))
	if !strings.Contains(rec.Body.String(), `data-theme="print"`) {
		t.Fatal("expected the print theme to be applied")
	}

	rec = httptest.NewRecorder()
	RecipeCostingPage(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/app/recipes/%d", id), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without the costing suffix, got %d", rec.Code)
	}
}

func TestRecipeResourceRouting(t *testing.T) {
	withTestDatabase(t)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/app/api/recipes", http.StatusOK},
		{http.MethodGet, "/app/api/recipes/abc", http.StatusNotFound},
		{http.MethodGet, "/app/api/recipes/9999/cost", http.StatusNotFound},
		{http.MethodGet, "/app/api/recipes/recompute", http.StatusMethodNotAllowed},
		{http.MethodPost, "/app/api/recipes/1/cost", http.StatusMethodNotAllowed},
		{http.MethodPatch, "/app/api/recipes/1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		RecipeResource(rec, httptest.NewRequest(tt.method, tt.target, nil))
		if rec.Code != tt.want {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.target, tt.want, rec.Code)
		}
	}
}
