// Package costing prices recipe lines and recipes from ingredient purchase
// data.
package costing

import (
	"errors"
	"fmt"
	"math"

	"backbar/internal/naming"
	"backbar/internal/units"
	"backbar/models"
)

// Status is the legacy cost status reported for a line.
type Status string

const (
	StatusHasCost  Status = "has_cost"
	StatusNoCost   Status = "no_cost"
	StatusNotFound Status = "not_found"
)

// Outcome separates free lines from lines that could not be priced, which
// both cost 0.
type Outcome string

const (
	OutcomeFree       Outcome = "free"
	OutcomeCosted     Outcome = "costed"
	OutcomeUnresolved Outcome = "unresolved"
)

var (
	ErrIngredientNotFound = errors.New("costing: ingredient not found")
	ErrNoPricing          = errors.New("costing: ingredient has no pricing")
	ErrMissingAmount      = errors.New("costing: line has no amount")
)

// Result is the cost of one recipe line.
type Result struct {
	IngredientName     string  `json:"ingredient_name"`
	IngredientID       uint    `json:"ingredient_id,omitempty"`
	Amount             float64 `json:"amount"`
	Unit               string  `json:"unit"`
	Cost               float64 `json:"cost"`
	Status             Status  `json:"status"`
	Outcome            Outcome `json:"outcome"`
	NeedsCostAttention bool    `json:"needs_cost_attention"`
	Reason             string  `json:"reason,omitempty"`
	Err                error   `json:"-"`
}

// Resolver prices lines against an immutable snapshot of ingredients and
// variants. It is safe for concurrent use.
type Resolver struct {
	index    *naming.IngredientIndex
	variants map[uint][]models.ProductVariant
}

// NewResolver builds a resolver. When variantsByIngredientID is nil the
// variants preloaded on each ingredient are used.
func NewResolver(ingredients []models.Ingredient, variantsByIngredientID map[uint][]models.ProductVariant) *Resolver {
	r := &Resolver{
		index:    naming.NewIngredientIndex(ingredients),
		variants: variantsByIngredientID,
	}
	if r.variants == nil {
		r.variants = make(map[uint][]models.ProductVariant)
		for _, ingredient := range r.index.All() {
			if len(ingredient.Variants) > 0 {
				r.variants[ingredient.ID] = ingredient.Variants
			}
		}
	}
	return r
}

// Index exposes the ingredient lookup used by the resolver.
func (r *Resolver) Index() *naming.IngredientIndex {
	if r == nil {
		return nil
	}
	return r.index
}

// LineCost resolves the line's ingredient by id, then by name, and prices it.
func (r *Resolver) LineCost(line models.RecipeIngredient) Result {
	if IsExempt(line.IngredientName) {
		return free(line, nil)
	}
	var ingredient *models.Ingredient
	if r != nil {
		ingredient = r.index.Resolve(line)
	}
	return r.Cost(ingredient, line)
}

// Cost prices line against an already resolved ingredient. A nil
// ingredient reports not_found.
func (r *Resolver) Cost(ingredient *models.Ingredient, line models.RecipeIngredient) Result {
	if ingredient == nil {
		if IsExempt(line.IngredientName) {
			return free(line, nil)
		}
		return unresolved(line, nil, StatusNotFound, ErrIngredientNotFound)
	}
	if IsExempt(ingredient.Name) {
		return free(line, ingredient)
	}
	if units.IsTop(line.Unit) {
		res := free(line, ingredient)
		res.Reason = "unquantified pour"
		return res
	}
	if line.Amount <= 0 || math.IsNaN(line.Amount) || math.IsInf(line.Amount, 0) {
		return unresolved(line, ingredient, StatusNoCost, ErrMissingAmount)
	}

	costPerUnit := r.CostPerUnit(ingredient)
	if costPerUnit <= 0 {
		return unresolved(line, ingredient, StatusNoCost, ErrNoPricing)
	}

	var cost float64
	var err error
	if action, ok := ingredient.FindPrepAction(line.PrepActionID); ok && action.YieldAmount > 0 {
		cost, err = prepCost(line, ingredient, action, costPerUnit)
	} else {
		var qty float64
		qty, err = units.ConvertE(line.Amount, line.Unit, ingredient.Unit, ingredient)
		cost = qty * costPerUnit
	}
	if err != nil {
		return unresolved(line, ingredient, StatusNoCost, err)
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return unresolved(line, ingredient, StatusNoCost, fmt.Errorf("%w: invalid cost", ErrNoPricing))
	}

	res := base(line, ingredient)
	res.Cost = cost
	res.Status = StatusHasCost
	res.Outcome = OutcomeCosted
	return res
}

// prepCost prices a prepared form: the requested amount in the action's
// yield unit over the yield of one purchase unit, times what one purchase
// unit costs.
func prepCost(line models.RecipeIngredient, ingredient *models.Ingredient, action models.PrepAction, costPerUnit float64) (float64, error) {
	yieldUnit := action.YieldUnit
	if yieldUnit == "" {
		yieldUnit = line.Unit
	}
	requested, err := units.ConvertE(line.Amount, line.Unit, yieldUnit, ingredient)
	if err != nil {
		return 0, err
	}
	purchaseUnit := ingredient.PurchaseUnit
	if purchaseUnit == "" {
		purchaseUnit = ingredient.Unit
	}
	perPurchaseUnit, err := units.ConvertE(1, purchaseUnit, ingredient.Unit, ingredient)
	if err != nil {
		return 0, err
	}
	return requested / action.YieldAmount * perPurchaseUnit * costPerUnit, nil
}

// CostPerUnit returns the ingredient's cost per base unit using the
// resolver's variants.
func (r *Resolver) CostPerUnit(ingredient *models.Ingredient) float64 {
	if ingredient == nil {
		return 0
	}
	variants := ingredient.Variants
	if r != nil {
		variants = r.variants[ingredient.ID]
	}
	return costPerUnit(ingredient, variants)
}

// IngredientCostPerUnit prices an ingredient from its own preloaded
// variants and purchase fields.
func IngredientCostPerUnit(ingredient *models.Ingredient) float64 {
	if ingredient == nil {
		return 0
	}
	return costPerUnit(ingredient, ingredient.Variants)
}

// costPerUnit: sub-recipes use their stored cost; purchased ingredients take
// the cheapest variant, then package pricing, then the stored cost.
func costPerUnit(ingredient *models.Ingredient, variants []models.ProductVariant) float64 {
	if ingredient.IsSubRecipe() {
		return nonNegative(ingredient.CostPerUnit)
	}
	if best := CheapestVariantCost(ingredient, variants); best > 0 {
		return best
	}
	if pkg := PackageCostPerUnit(ingredient); pkg > 0 {
		return pkg
	}
	return nonNegative(ingredient.CostPerUnit)
}

func base(line models.RecipeIngredient, ingredient *models.Ingredient) Result {
	res := Result{
		IngredientName: line.IngredientName,
		Amount:         line.Amount,
		Unit:           line.Unit,
	}
	if ingredient != nil {
		res.IngredientID = ingredient.ID
		if res.IngredientName == "" {
			res.IngredientName = ingredient.Name
		}
	}
	return res
}

func free(line models.RecipeIngredient, ingredient *models.Ingredient) Result {
	res := base(line, ingredient)
	res.Status = StatusHasCost
	res.Outcome = OutcomeFree
	return res
}

func unresolved(line models.RecipeIngredient, ingredient *models.Ingredient, status Status, err error) Result {
	res := base(line, ingredient)
	res.Status = status
	res.Outcome = OutcomeUnresolved
	res.NeedsCostAttention = true
	res.Err = err
	if err != nil {
		res.Reason = err.Error()
	}
	return res
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
