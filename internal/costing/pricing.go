package costing

import (
	"backbar/internal/units"
	"backbar/models"
)

// EffectivePackagePrice is the price of one package, floored by the per
// bottle case price when case pricing applies.
func EffectivePackagePrice(price, casePrice float64, bottlesPerCase int, useCase bool) float64 {
	price = nonNegative(price)
	if !useCase || casePrice <= 0 || bottlesPerCase <= 0 {
		return price
	}
	perBottle := casePrice / float64(bottlesPerCase)
	if price <= 0 || perBottle < price {
		return perBottle
	}
	return price
}

// PackageCostPerUnit derives cost per base unit from the ingredient's own
// purchase fields, or 0 when they are incomplete or unconvertible.
func PackageCostPerUnit(ingredient *models.Ingredient) float64 {
	if ingredient == nil || ingredient.PurchaseQuantity <= 0 {
		return 0
	}
	purchaseUnit := ingredient.PurchaseUnit
	if purchaseUnit == "" {
		purchaseUnit = ingredient.Unit
	}
	qty, err := units.ConvertE(ingredient.PurchaseQuantity, purchaseUnit, ingredient.Unit, ingredient)
	if err != nil || qty <= 0 {
		return 0
	}
	price := EffectivePackagePrice(ingredient.PurchasePrice, ingredient.CasePrice, ingredient.BottlesPerCase, ingredient.UseCasePricing)
	return nonNegative(price / qty)
}

// VariantCostPerUnit is the variant's effective cost per base unit of the
// ingredient. Case pricing applies whenever both case fields are set.
func VariantCostPerUnit(ingredient *models.Ingredient, variant models.ProductVariant) float64 {
	if ingredient == nil {
		return 0
	}
	var qty float64
	var err error
	switch {
	case variant.PurchaseQuantity > 0 && variant.PurchaseUnit != "":
		qty, err = units.ConvertE(variant.PurchaseQuantity, variant.PurchaseUnit, ingredient.Unit, ingredient)
	case variant.SizeML > 0:
		qty, err = units.ConvertE(variant.SizeML, units.ML, ingredient.Unit, ingredient)
	default:
		return 0
	}
	if err != nil || qty <= 0 {
		return 0
	}
	useCase := variant.CasePrice > 0 && variant.BottlesPerCase > 0
	price := EffectivePackagePrice(variant.PurchasePrice, variant.CasePrice, variant.BottlesPerCase, useCase)
	return nonNegative(price / qty)
}

// CheapestVariantCost returns the lowest positive variant cost, or 0.
func CheapestVariantCost(ingredient *models.Ingredient, variants []models.ProductVariant) float64 {
	best := 0.0
	for _, variant := range variants {
		cost := VariantCostPerUnit(ingredient, variant)
		if cost <= 0 {
			continue
		}
		if best == 0 || cost < best {
			best = cost
		}
	}
	return best
}

// SizeML derives a variant's size in milliliters from its purchase fields.
func SizeML(quantity float64, unit string, ingredient *models.Ingredient) float64 {
	return units.Convert(quantity, unit, units.ML, ingredient)
}
