package naming

import (
	"backbar/models"
)

// IngredientIndex resolves recipe lines against an immutable snapshot of
// ingredients, by id first and normalised name second.
type IngredientIndex struct {
	all   []models.Ingredient
	byID  map[uint]*models.Ingredient
	byKey map[string]*models.Ingredient
}

// NewIngredientIndex copies ingredients into a lookup index. When two
// ingredients share a name key the first one wins.
func NewIngredientIndex(ingredients []models.Ingredient) *IngredientIndex {
	idx := &IngredientIndex{
		all:   make([]models.Ingredient, len(ingredients)),
		byID:  make(map[uint]*models.Ingredient, len(ingredients)),
		byKey: make(map[string]*models.Ingredient, len(ingredients)),
	}
	copy(idx.all, ingredients)
	for i := range idx.all {
		ingredient := &idx.all[i]
		if ingredient.ID != 0 {
			if _, ok := idx.byID[ingredient.ID]; !ok {
				idx.byID[ingredient.ID] = ingredient
			}
		}
		key := Key(ingredient.Name)
		if key == "" {
			continue
		}
		if _, ok := idx.byKey[key]; !ok {
			idx.byKey[key] = ingredient
		}
	}
	return idx
}

// All returns the indexed ingredients.
func (idx *IngredientIndex) All() []models.Ingredient {
	if idx == nil {
		return nil
	}
	return idx.all
}

func (idx *IngredientIndex) ByID(id uint) *models.Ingredient {
	if idx == nil || id == 0 {
		return nil
	}
	return idx.byID[id]
}

func (idx *IngredientIndex) ByName(name string) *models.Ingredient {
	if idx == nil {
		return nil
	}
	key := Key(name)
	if key == "" {
		return nil
	}
	return idx.byKey[key]
}

// Resolve finds the ingredient a recipe line refers to.
func (idx *IngredientIndex) Resolve(line models.RecipeIngredient) *models.Ingredient {
	if idx == nil {
		return nil
	}
	if line.IngredientID != nil {
		if ingredient := idx.ByID(*line.IngredientID); ingredient != nil {
			return ingredient
		}
	}
	return idx.ByName(line.IngredientName)
}
