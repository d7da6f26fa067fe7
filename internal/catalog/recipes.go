package catalog

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"backbar/internal/abv"
	"backbar/internal/costing"
	applog "backbar/internal/log"
	"backbar/internal/metrics"
	"backbar/internal/naming"
	"backbar/internal/units"
	"backbar/models"
)

// ListRecipes returns every recipe with its lines in position order.
func (s *Service) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		sortLines(recipes[i].Ingredients)
	}
	return recipes, nil
}

func (s *Service) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	sortLines(recipe.Ingredients)
	return recipe, nil
}

// SaveRecipe creates or replaces a recipe and its lines. Lines keep their
// slice order and are linked to catalog ingredients by id or name. Saving a
// sub-recipe keeps its linked ingredient in step and refreshes every
// sub-recipe cost.
func (s *Service) SaveRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.Name = naming.Normalize(recipe.Name)
	if recipe.Name == "" {
		return ErrInvalidName
	}
	if recipe.ID != 0 {
		existing, err := s.recipes.Get(ctx, recipe.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("recipe %d: %w", recipe.ID, ErrNotFound)
		}
		recipe.CreatedAt = existing.CreatedAt
		if recipe.IngredientID == nil {
			recipe.IngredientID = existing.IngredientID
		}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	idx := naming.NewIngredientIndex(snap.Ingredients)
	if snap.IsSubRecipe(recipe) && recipe.IngredientID != nil {
		if linked := idx.ByID(*recipe.IngredientID); linked != nil && linked.Name != recipe.Name {
			if owner := nameOwner(snap.Ingredients, recipe.Name, linked.ID); owner != nil {
				return fmt.Errorf("%q: %w", recipe.Name, ErrDuplicateIngredient)
			}
		}
	}
	lines := linkLines(recipe.Ingredients, idx)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients").Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return fmt.Errorf("save recipe %q: %w", recipe.Name, err)
	}
	recipe.Ingredients = lines

	if snap.IsSubRecipe(recipe) {
		if err := s.ensureLinkedIngredient(ctx, recipe, idx); err != nil {
			return err
		}
		result, err := s.RecomputeSubRecipes(ctx)
		if err != nil {
			return err
		}
		if !result.OK() {
			applog.Warn(ctx, "sub-recipe recompute finished with failures", "failed", len(result.Failed()))
		}
	}
	return s.refreshRecipeABV(ctx, recipe)
}

func linkLines(lines []models.RecipeIngredient, idx *naming.IngredientIndex) []models.RecipeIngredient {
	linked := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		line.ID = 0
		line.Position = len(linked)
		line.IngredientName = naming.Normalize(line.IngredientName)
		line.Unit = units.Canonical(line.Unit)
		if ingredient := idx.Resolve(line); ingredient != nil {
			id := ingredient.ID
			line.IngredientID = &id
			line.IngredientName = ingredient.Name
		} else {
			line.IngredientID = nil
		}
		if line.IngredientName == "" {
			continue
		}
		linked = append(linked, line)
	}
	return linked
}

// ensureLinkedIngredient makes sure a sub-recipe has an ingredient record
// carrying its name. An existing ingredient with the same name is adopted;
// a renamed sub-recipe renames its ingredient and the lines that use it.
func (s *Service) ensureLinkedIngredient(ctx context.Context, recipe *models.Recipe, idx *naming.IngredientIndex) error {
	var linked *models.Ingredient
	if recipe.IngredientID != nil {
		linked = idx.ByID(*recipe.IngredientID)
	}
	if linked == nil {
		linked = idx.ByName(recipe.Name)
	}

	recipeID := recipe.ID
	if linked == nil {
		unit := units.Canonical(recipe.YieldUnit)
		if unit == "" || units.IsTop(unit) {
			unit = units.Ounce
		}
		linked = &models.Ingredient{
			Name:           recipe.Name,
			Category:       recipe.Category,
			Unit:           unit,
			IngredientType: models.IngredientTypeSubRecipe,
			SubRecipeID:    &recipeID,
		}
		if err := s.ingredients.Create(ctx, linked); err != nil {
			return fmt.Errorf("create linked ingredient for %q: %w", recipe.Name, err)
		}
		applog.Info(ctx, "sub-recipe ingredient created", "recipe_id", recipe.ID, "ingredient_id", linked.ID)
	} else {
		patch := map[string]any{
			"ingredient_type": models.IngredientTypeSubRecipe,
			"sub_recipe_id":   recipeID,
		}
		if _, err := s.ingredients.Update(ctx, linked.ID, patch); err != nil {
			return fmt.Errorf("link ingredient %d to recipe %d: %w", linked.ID, recipe.ID, err)
		}
		if linked.Name != recipe.Name {
			// the recipe already carries the new name
			renamed := *linked
			renamed.SubRecipeID = nil
			result, err := s.applyRename(ctx, &renamed, recipe.Name)
			if err != nil {
				return err
			}
			if !result.OK() {
				applog.Warn(ctx, "sub-recipe rename finished with failures", "recipe_id", recipe.ID, "failed", len(result.Failed()))
			}
		}
	}

	id := linked.ID
	recipe.IngredientID = &id
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Update("ingredient_id", id).Error; err != nil {
		return fmt.Errorf("link recipe %d: %w", recipe.ID, err)
	}
	return nil
}

func (s *Service) refreshRecipeABV(ctx context.Context, recipe *models.Recipe) error {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return err
	}
	recipe.ABV = abv.AggregateIndex(recipe, naming.NewIngredientIndex(ingredients)).ABV
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Update("abv", recipe.ABV).Error; err != nil {
		return fmt.Errorf("update abv of recipe %d: %w", recipe.ID, err)
	}
	return nil
}

// DeleteRecipe removes the recipe and its lines. A linked ingredient is
// kept but no longer treated as a sub-recipe.
func (s *Service) DeleteRecipe(ctx context.Context, id uint) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Recipe{}, id).Error; err != nil {
			return err
		}
		if recipe.IngredientID == nil {
			return nil
		}
		return tx.Model(&models.Ingredient{}).
			Where("id = ?", *recipe.IngredientID).
			Updates(map[string]any{
				"sub_recipe_id":   nil,
				"ingredient_type": models.IngredientTypePurchased,
			}).Error
	})
}

// CostSheet returns the recipe together with its cost breakdown.
func (s *Service) CostSheet(ctx context.Context, id uint) (*models.Recipe, costing.Summary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, costing.Summary{}, err
	}
	recipe := snap.recipe(id)
	if recipe == nil {
		return nil, costing.Summary{}, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
	}
	summary := snap.Resolver().RecipeCost(recipe)
	for _, line := range summary.Lines {
		metrics.ObserveCostLine(string(line.Outcome))
	}
	return recipe, summary, nil
}

func (s *Service) RecipeCost(ctx context.Context, id uint) (costing.Summary, error) {
	_, summary, err := s.CostSheet(ctx, id)
	return summary, err
}

// RecomputeSubRecipes refreshes the cost per unit and ABV of every linked
// sub-recipe ingredient. Sub-recipes are processed after the sub-recipes
// they use; recipes caught in a cycle are reported as failures and left
// unchanged.
func (s *Service) RecomputeSubRecipes(ctx context.Context) (BatchResult, error) {
	var result BatchResult
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return result, err
	}

	positions := make(map[uint]int, len(snap.Ingredients))
	for i, ingredient := range snap.Ingredients {
		positions[ingredient.ID] = i
	}
	var subs []*models.Recipe
	for i := range snap.Recipes {
		if snap.Recipes[i].IngredientID != nil {
			subs = append(subs, &snap.Recipes[i])
		}
	}

	ordered, cyclic := subRecipeOrder(subs, naming.NewIngredientIndex(snap.Ingredients))
	for _, recipe := range ordered {
		pos, ok := positions[*recipe.IngredientID]
		if !ok {
			err := fmt.Errorf("linked ingredient %d: %w", *recipe.IngredientID, ErrNotFound)
			applog.Warn(ctx, "sub-recipe has no linked ingredient", "recipe_id", recipe.ID, "error", err)
			result.record("recompute", recipe.ID, recipe.Name, err)
			continue
		}
		ingredient := &snap.Ingredients[pos]
		resolver := snap.Resolver()
		cost := resolver.SubRecipeCostPerUnit(recipe, ingredient.Unit)
		stats := abv.AggregateIndex(recipe, resolver.Index())

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Ingredient{}).Where("id = ?", ingredient.ID).Updates(map[string]any{
				"cost_per_unit":   cost,
				"abv":             stats.ABV,
				"ingredient_type": models.IngredientTypeSubRecipe,
				"sub_recipe_id":   recipe.ID,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("abv", stats.ABV).Error
		})
		if err != nil {
			applog.Error(ctx, "failed to recompute sub-recipe", "recipe_id", recipe.ID, "error", err)
		} else {
			ingredient.CostPerUnit = cost
			ingredient.ABV = stats.ABV
			ingredient.IngredientType = models.IngredientTypeSubRecipe
			recipe.ABV = stats.ABV
		}
		result.record("recompute", recipe.ID, recipe.Name, err)
	}
	for _, recipe := range cyclic {
		applog.Warn(ctx, "sub-recipe cycle detected", "recipe_id", recipe.ID, "recipe", recipe.Name)
		result.record("recompute", recipe.ID, recipe.Name, ErrSubRecipeCycle)
	}
	return result, nil
}

// subRecipeOrder sorts sub-recipes so each comes after the sub-recipes its
// lines use. Ties are broken by recipe id. Recipes that depend on
// themselves, directly or not, are returned separately.
func subRecipeOrder(subs []*models.Recipe, idx *naming.IngredientIndex) (ordered, cyclic []*models.Recipe) {
	byIngredient := make(map[uint]*models.Recipe, len(subs))
	byID := make(map[uint]*models.Recipe, len(subs))
	for _, recipe := range subs {
		byIngredient[*recipe.IngredientID] = recipe
		byID[recipe.ID] = recipe
	}

	pending := make(map[uint]int, len(subs))
	dependents := make(map[uint][]uint)
	for _, recipe := range subs {
		seen := make(map[uint]bool)
		for _, line := range recipe.Ingredients {
			ingredient := idx.Resolve(line)
			if ingredient == nil {
				continue
			}
			dep, ok := byIngredient[ingredient.ID]
			if !ok || seen[dep.ID] {
				continue
			}
			seen[dep.ID] = true
			pending[recipe.ID]++
			dependents[dep.ID] = append(dependents[dep.ID], recipe.ID)
		}
	}

	var ready []uint
	for _, recipe := range subs {
		if pending[recipe.ID] == 0 {
			ready = append(ready, recipe.ID)
		}
	}
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byID[id])
		for _, next := range dependents[id] {
			pending[next]--
			if pending[next] == 0 {
				ready = append(ready, next)
			}
		}
	}
	for _, recipe := range subs {
		if pending[recipe.ID] > 0 {
			cyclic = append(cyclic, recipe)
		}
	}
	return ordered, cyclic
}
