package naming

import (
	"testing"

	"backbar/models"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"lowercase", "lime juice", "Lime Juice"},
		{"shouting", "ANGOSTURA BITTERS", "Angostura Bitters"},
		{"whitespace", "  demerara   syrup ", "Demerara Syrup"},
		{"hyphenated", "ST-GERMAIN", "St-germain"},
		{"apostrophe", "pimm's no. 1", "Pimm's No. 1"},
		{"accented", "éclat orgeat", "Éclat Orgeat"},
		{"empty", "   ", ""},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.value); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestKeyAndEqual(t *testing.T) {
	t.Parallel()

	if Key("  Lime   JUICE ") != "lime juice" {
		t.Fatalf("unexpected key %q", Key("  Lime   JUICE "))
	}
	if !Equal("Gin", " gin ") {
		t.Fatal("expected case-insensitive equality")
	}
	if Equal("Gin", "Old Tom Gin") {
		t.Fatal("expected different names to differ")
	}
}

func fixtureRecipes() []models.Recipe {
	return []models.Recipe{
		{Name: "Martini", Ingredients: []models.RecipeIngredient{
			{IngredientName: "gin", Amount: 2.5, Unit: "oz"},
			{IngredientName: "Dry Vermouth", Amount: 0.5, Unit: "oz"},
		}},
		{Name: "Daiquiri", Ingredients: []models.RecipeIngredient{
			{IngredientName: "White Rum", Amount: 2, Unit: "oz"},
		}},
		{Name: "Gimlet", Ingredients: []models.RecipeIngredient{
			{IngredientName: "GIN ", Amount: 2, Unit: "oz"},
			{IngredientName: "Lime Cordial", Amount: 0.75, Unit: "oz"},
		}},
	}
}

func TestPropagateRename(t *testing.T) {
	t.Parallel()

	recipes := fixtureRecipes()
	updated := PropagateRename("Gin", "london dry gin", recipes)
	if len(updated) != 2 {
		t.Fatalf("expected two updated recipes, got %d", len(updated))
	}
	for _, recipe := range updated {
		if recipe.Ingredients[0].IngredientName != "London Dry Gin" {
			t.Fatalf("expected rename in %s, got %q", recipe.Name, recipe.Ingredients[0].IngredientName)
		}
	}
	if recipes[0].Ingredients[0].IngredientName != "gin" {
		t.Fatal("expected input recipes to be left untouched")
	}
}

func TestPropagateRenameNoop(t *testing.T) {
	t.Parallel()

	for _, pair := range [][2]string{{"Gin", "Gin"}, {"gin", "GIN"}, {"", "Gin"}, {"Gin", "  "}} {
		if updated := PropagateRename(pair[0], pair[1], fixtureRecipes()); len(updated) != 0 {
			t.Fatalf("rename %q -> %q updated %d recipes, want 0", pair[0], pair[1], len(updated))
		}
	}
}

func TestIngredientIndexResolve(t *testing.T) {
	t.Parallel()

	ingredients := []models.Ingredient{{Name: "Gin"}, {Name: "Lime"}, {Name: "gin"}}
	ingredients[0].ID, ingredients[1].ID, ingredients[2].ID = 10, 11, 12
	idx := NewIngredientIndex(ingredients)

	id := uint(11)
	if got := idx.Resolve(models.RecipeIngredient{IngredientID: &id, IngredientName: "Gin"}); got == nil || got.Name != "Lime" {
		t.Fatalf("expected id lookup to win, got %+v", got)
	}
	missing := uint(99)
	if got := idx.Resolve(models.RecipeIngredient{IngredientID: &missing, IngredientName: " GIN"}); got == nil || got.ID != 10 {
		t.Fatalf("expected name fallback to first gin, got %+v", got)
	}
	if got := idx.Resolve(models.RecipeIngredient{IngredientName: "Tonic"}); got != nil {
		t.Fatalf("expected unknown name to be nil, got %+v", got)
	}

	var nilIndex *IngredientIndex
	if nilIndex.Resolve(models.RecipeIngredient{IngredientName: "Gin"}) != nil || nilIndex.All() != nil {
		t.Fatal("expected nil index to resolve nothing")
	}
}
