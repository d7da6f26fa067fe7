package units

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"backbar/models"
)

var (
	// ErrUnconvertible reports that no built-in, custom or density path
	// links the two units.
	ErrUnconvertible = errors.New("units: no conversion path")
	// ErrUnquantified reports a "top" pour, which has no measurable amount.
	ErrUnquantified = errors.New("units: unquantified amount")
	// ErrInvalidAmount reports a NaN or infinite amount.
	ErrInvalidAmount = errors.New("units: invalid amount")
)

// Convert converts amount from one unit to another and returns 0 when no
// conversion path exists. A zero result means "could not price", not "free";
// use ConvertE when the distinction matters.
func Convert(amount float64, from, to string, ingredient *models.Ingredient) float64 {
	value, err := ConvertE(amount, from, to, ingredient)
	if err != nil {
		return 0
	}
	return value
}

// ConvertE converts amount and reports why a conversion is impossible.
// Identity conversions return amount unchanged.
func ConvertE(amount float64, from, to string, ingredient *models.Ingredient) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if from == to {
		return amount, nil
	}

	f, t := Canonical(from), Canonical(to)
	if f == t {
		return amount, nil
	}
	if f == Top || t == Top {
		return 0, ErrUnquantified
	}

	if value, ok := builtin(amount, f, t); ok {
		return value, nil
	}
	if ingredient != nil {
		if value, ok := viaCustom(amount, f, t, ingredient.CustomConversions); ok {
			return value, nil
		}
		if value, ok := viaDensity(amount, f, t, ingredient); ok {
			return value, nil
		}
	}
	return 0, fmt.Errorf("%w: %q to %q", ErrUnconvertible, from, to)
}

// ToML converts amount to milliliters.
func ToML(amount float64, unit string, ingredient *models.Ingredient) float64 {
	return Convert(amount, unit, ML, ingredient)
}

func builtin(amount float64, from, to string) (float64, bool) {
	src, ok := definitions[from]
	if !ok {
		return 0, false
	}
	dst, ok := definitions[to]
	if !ok || src.kind != dst.kind {
		return 0, false
	}
	return finite(amount * src.factor / dst.factor)
}

func viaCustom(amount float64, from, to string, conversions []models.CustomConversion) (float64, bool) {
	// Direct entries win over paths that hop through a built-in unit.
	for _, conv := range conversions {
		ratio := conv.Ratio()
		if ratio <= 0 {
			continue
		}
		cf, ct := Canonical(conv.FromUnit), Canonical(conv.ToUnit)
		switch {
		case cf == from && ct == to:
			return finite(amount * ratio)
		case cf == to && ct == from:
			return finite(amount / ratio)
		}
	}

	for _, conv := range conversions {
		ratio := conv.Ratio()
		if ratio <= 0 {
			continue
		}
		cf, ct := Canonical(conv.FromUnit), Canonical(conv.ToUnit)
		if cf == from {
			if value, ok := builtin(amount*ratio, ct, to); ok {
				return value, true
			}
		}
		if ct == from {
			if value, ok := builtin(amount/ratio, cf, to); ok {
				return value, true
			}
		}
		if ct == to {
			if mid, ok := builtin(amount, from, cf); ok {
				return finite(mid * ratio)
			}
		}
		if cf == to {
			if mid, ok := builtin(amount, from, ct); ok {
				return finite(mid / ratio)
			}
		}
	}
	return 0, false
}

func viaDensity(amount float64, from, to string, ingredient *models.Ingredient) (float64, bool) {
	gramsPerML := GramsPerML(ingredient)
	if gramsPerML <= 0 {
		return 0, false
	}
	src, ok := definitions[from]
	if !ok {
		return 0, false
	}
	dst, ok := definitions[to]
	if !ok {
		return 0, false
	}

	switch {
	case src.kind == KindWeight && dst.kind == KindVolume:
		ml := amount * src.factor / gramsPerML
		return finite(ml / dst.factor)
	case src.kind == KindVolume && dst.kind == KindWeight:
		grams := amount * src.factor * gramsPerML
		return finite(grams / dst.factor)
	}
	return 0, false
}

// GramsPerML resolves the ingredient density. DensityUnit is written as
// "<weight>/<volume>" (for example "g/ml" or "lb/gallon"); an empty unit
// means grams per milliliter.
func GramsPerML(ingredient *models.Ingredient) float64 {
	if ingredient == nil || ingredient.DensityValue <= 0 {
		return 0
	}
	unit := strings.TrimSpace(ingredient.DensityUnit)
	if unit == "" {
		return ingredient.DensityValue
	}
	weight, volume, found := strings.Cut(unit, "/")
	if !found {
		return 0
	}
	w, ok := definitions[Canonical(weight)]
	if !ok || w.kind != KindWeight {
		return 0
	}
	v, ok := definitions[Canonical(volume)]
	if !ok || v.kind != KindVolume {
		return 0
	}
	return ingredient.DensityValue * w.factor / v.factor
}

func finite(value float64) (float64, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
