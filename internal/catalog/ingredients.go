package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"backbar/internal/costing"
	applog "backbar/internal/log"
	"backbar/internal/naming"
	"backbar/internal/units"
	"backbar/models"
)

// Columns callers may never patch directly. Names change through
// RenameIngredient and costs are derived.
var protectedIngredientColumns = []string{"id", "name", "cost_per_unit", "created_at", "updated_at", "deleted_at"}

func (s *Service) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx)
}

// GetIngredient returns the ingredient with its variants, or ErrNotFound.
func (s *Service) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.Preload("Variants").Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
	}
	return ingredient, nil
}

// CreateIngredient stores a new ingredient under its normalised name.
func (s *Service) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	ingredient.Name = naming.Normalize(ingredient.Name)
	if ingredient.Name == "" {
		return ErrInvalidName
	}
	existing, err := s.FindIngredient(ctx, ingredient.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%q: %w", ingredient.Name, ErrDuplicateIngredient)
	}

	if ingredient.IngredientType == "" {
		ingredient.IngredientType = models.IngredientTypePurchased
	}
	if ingredient.Unit == "" {
		ingredient.Unit = units.Ounce
	} else {
		ingredient.Unit = units.Canonical(ingredient.Unit)
	}
	for i := range ingredient.Variants {
		fillVariantSize(&ingredient.Variants[i], ingredient)
	}
	if !ingredient.IsSubRecipe() {
		if cost := costing.IngredientCostPerUnit(ingredient); cost > 0 {
			ingredient.CostPerUnit = cost
		}
	}
	return s.ingredients.Create(ctx, ingredient)
}

// UpdateIngredient applies a partial patch and re-derives the cost.
func (s *Service) UpdateIngredient(ctx context.Context, id uint, patch map[string]any) (*models.Ingredient, error) {
	clean := make(map[string]any, len(patch))
	for column, value := range patch {
		clean[column] = value
	}
	for _, column := range protectedIngredientColumns {
		delete(clean, column)
	}
	if unit, ok := clean["unit"].(string); ok {
		clean["unit"] = units.Canonical(unit)
	}

	if _, err := s.ingredients.Update(ctx, id, clean); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s.RefreshIngredientCost(ctx, id)
}

// RefreshIngredientCost re-derives CostPerUnit of a purchased ingredient
// from its variants and package pricing. Sub-recipe costs are left to
// RecomputeSubRecipes.
func (s *Service) RefreshIngredientCost(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredient.IsSubRecipe() {
		return ingredient, nil
	}
	cost := costing.IngredientCostPerUnit(ingredient)
	if cost == ingredient.CostPerUnit {
		return ingredient, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id = ?", id).
		Update("cost_per_unit", cost).Error; err != nil {
		return nil, fmt.Errorf("refresh cost of ingredient %d: %w", id, err)
	}
	ingredient.CostPerUnit = cost
	return ingredient, nil
}

// RenameIngredient renames the ingredient and its linked sub-recipe, then
// rewrites every recipe line that named it. Each recipe is written on its
// own; a failed recipe is logged and reported while the rest continue.
func (s *Service) RenameIngredient(ctx context.Context, id uint, newName string) (BatchResult, error) {
	var result BatchResult
	canonical := naming.Normalize(newName)
	if canonical == "" {
		return result, ErrInvalidName
	}
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return result, err
	}
	if naming.Normalize(ingredient.Name) == canonical {
		return result, nil
	}
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return result, err
	}
	if owner := nameOwner(ingredients, canonical, id); owner != nil {
		return result, fmt.Errorf("%q: %w", canonical, ErrDuplicateIngredient)
	}
	return s.applyRename(ctx, ingredient, canonical)
}

// applyRename writes an already validated name and propagates it to the
// linked sub-recipe and to every recipe line naming the old one.
func (s *Service) applyRename(ctx context.Context, ingredient *models.Ingredient, canonical string) (BatchResult, error) {
	var result BatchResult
	id, oldName := ingredient.ID, ingredient.Name
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id = ?", id).
		Update("name", canonical).Error; err != nil {
		return result, fmt.Errorf("rename ingredient %d: %w", id, err)
	}
	applog.Info(ctx, "ingredient renamed", "ingredient_id", id, "from", oldName, "to", canonical)

	if ingredient.SubRecipeID != nil {
		err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("id = ?", *ingredient.SubRecipeID).
			Update("name", canonical).Error
		if err != nil {
			applog.Error(ctx, "failed to rename linked sub-recipe", "recipe_id", *ingredient.SubRecipeID, "error", err)
		}
		result.record("rename", *ingredient.SubRecipeID, canonical, err)
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return result, err
	}
	for _, recipe := range naming.PropagateRename(oldName, canonical, recipes) {
		err := s.renameLines(ctx, recipe)
		if err != nil {
			applog.Error(ctx, "failed to propagate ingredient rename", "recipe_id", recipe.ID, "error", err)
		}
		result.record("rename", recipe.ID, recipe.Name, err)
	}
	return result, nil
}

func (s *Service) renameLines(ctx context.Context, recipe models.Recipe) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range recipe.Ingredients {
			if err := tx.Model(&models.RecipeIngredient{}).
				Where("id = ? AND recipe_id = ?", line.ID, recipe.ID).
				Update("ingredient_name", line.IngredientName).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SyncVariants replaces the ingredient's product variants with variants and
// refreshes its cost. Each created variant is reported individually.
func (s *Service) SyncVariants(ctx context.Context, ingredientID uint, variants []models.ProductVariant) (BatchResult, error) {
	var result BatchResult
	ingredient, err := s.GetIngredient(ctx, ingredientID)
	if err != nil {
		return result, err
	}

	if err := s.db.WithContext(ctx).
		Where("ingredient_id = ?", ingredientID).
		Delete(&models.ProductVariant{}).Error; err != nil {
		return result, fmt.Errorf("clear variants of ingredient %d: %w", ingredientID, err)
	}

	for i := range variants {
		variant := variants[i]
		variant.ID = 0
		variant.IngredientID = ingredientID
		fillVariantSize(&variant, ingredient)
		err := s.variants.Create(ctx, &variant)
		if err != nil {
			applog.Error(ctx, "failed to create product variant", "ingredient_id", ingredientID, "sku", variant.SKUNumber, "error", err)
		}
		result.record("sync_variants", variant.ID, variant.SKUNumber, err)
	}

	if _, err := s.RefreshIngredientCost(ctx, ingredientID); err != nil {
		return result, err
	}
	return result, nil
}

// FindIngredient looks an ingredient up by normalised name and returns nil
// when none matches.
func (s *Service) FindIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}
	return naming.NewIngredientIndex(ingredients).ByName(name), nil
}

// nameOwner returns the ingredient other than selfID whose name or one of
// whose aliases has the same key as name.
func nameOwner(ingredients []models.Ingredient, name string, selfID uint) *models.Ingredient {
	key := naming.Key(name)
	if key == "" {
		return nil
	}
	for i := range ingredients {
		ingredient := &ingredients[i]
		if ingredient.ID == selfID {
			continue
		}
		if naming.Key(ingredient.Name) == key {
			return ingredient
		}
		for _, alias := range ingredient.Aliases {
			if naming.Key(alias) == key {
				return ingredient
			}
		}
	}
	return nil
}

func fillVariantSize(variant *models.ProductVariant, ingredient *models.Ingredient) {
	if variant.SizeML > 0 || variant.PurchaseQuantity <= 0 {
		return
	}
	variant.SizeML = costing.SizeML(variant.PurchaseQuantity, variant.PurchaseUnit, ingredient)
}
