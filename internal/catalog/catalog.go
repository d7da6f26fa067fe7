// Package catalog runs the multi-step ingredient and recipe flows over the
// entity store: renames, variant syncs, sub-recipe upkeep and import
// previews. Writes are sequential and best effort; batch operations report
// a per-item outcome instead of rolling back.
package catalog

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"backbar/internal/costing"
	"backbar/internal/db"
	"backbar/internal/matching"
	"backbar/internal/metrics"
	"backbar/internal/naming"
	"backbar/models"
)

var (
	ErrNotFound             = errors.New("catalog: not found")
	ErrInvalidName          = errors.New("catalog: name must not be empty")
	ErrDuplicateIngredient  = errors.New("catalog: ingredient already exists")
	ErrUnresolvedIngredient = errors.New("catalog: unresolved ingredient")
	ErrSubRecipeCycle       = errors.New("catalog: sub-recipe cycle")
)

// Service is the catalog over one database.
type Service struct {
	db               *gorm.DB
	ingredients      *db.Collection[models.Ingredient]
	variants         *db.Collection[models.ProductVariant]
	recipes          *db.Collection[models.Recipe]
	recipeCategories *db.Collection[models.RecipeCategory]
	matcher          *matching.Matcher
}

func New(database *gorm.DB) *Service {
	return &Service{
		db:               database,
		ingredients:      db.NewCollection[models.Ingredient](database),
		variants:         db.NewCollection[models.ProductVariant](database),
		recipes:          db.NewCollection[models.Recipe](database).Preload("Ingredients"),
		recipeCategories: db.NewCollection[models.RecipeCategory](database),
		matcher:          matching.Default,
	}
}

// WithMatcher returns a copy of the service ranking with m.
func (s *Service) WithMatcher(m *matching.Matcher) *Service {
	next := *s
	next.matcher = m
	return &next
}

func (s *Service) Matcher() *matching.Matcher {
	return s.matcher
}

// Snapshot is an immutable read of everything the pure packages need.
type Snapshot struct {
	Ingredients         []models.Ingredient
	Variants            map[uint][]models.ProductVariant
	Recipes             []models.Recipe
	SubRecipeCategories map[string]bool
}

// Snapshot loads ingredients, variants, recipes and sub-recipe categories.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}
	variants, err := s.variants.List(ctx)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.recipeCategories.Filter(ctx, map[string]any{"is_sub_recipe": true})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Ingredients:         ingredients,
		Variants:            make(map[uint][]models.ProductVariant),
		Recipes:             recipes,
		SubRecipeCategories: make(map[string]bool, len(categories)),
	}
	for _, variant := range variants {
		snap.Variants[variant.IngredientID] = append(snap.Variants[variant.IngredientID], variant)
	}
	for i := range snap.Recipes {
		sortLines(snap.Recipes[i].Ingredients)
	}
	for _, category := range categories {
		snap.SubRecipeCategories[naming.Key(category.Name)] = true
	}
	return snap, nil
}

// Resolver builds a cost resolver over the snapshot.
func (snap *Snapshot) Resolver() *costing.Resolver {
	return costing.NewResolver(snap.Ingredients, snap.Variants)
}

// IsSubRecipe reports whether recipe defines an ingredient: it is already
// linked, its category is flagged as a sub-recipe category, or it is a wash.
func (snap *Snapshot) IsSubRecipe(recipe *models.Recipe) bool {
	if recipe.IngredientID != nil {
		return true
	}
	if models.IsWashCategory(recipe.Category) {
		return true
	}
	return snap.SubRecipeCategories[naming.Key(recipe.Category)]
}

func (snap *Snapshot) recipe(id uint) *models.Recipe {
	for i := range snap.Recipes {
		if snap.Recipes[i].ID == id {
			return &snap.Recipes[i]
		}
	}
	return nil
}

// Resolver loads a snapshot and returns a cost resolver over it.
func (s *Service) Resolver(ctx context.Context) (*costing.Resolver, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Resolver(), nil
}

// Match ranks catalog ingredients against query.
func (s *Service) Match(ctx context.Context, query string, threshold float64) ([]matching.Candidate, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := s.matcher.Match(query, ingredients, threshold)
	top := 0.0
	if len(candidates) > 0 {
		top = candidates[0].Confidence
	}
	metrics.ObserveMatch(top)
	return candidates, nil
}

func sortLines(lines []models.RecipeIngredient) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Position != lines[j].Position {
			return lines[i].Position < lines[j].Position
		}
		return lines[i].ID < lines[j].ID
	})
}
