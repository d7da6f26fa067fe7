package units

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backbar/models"
)

func TestConvertIdentity(t *testing.T) {
	t.Parallel()

	units := append(Volumes(), Gram, Kilogram, Pound, Each, Top, "stalk", "", "Fl Oz")
	for _, unit := range units {
		for _, amount := range []float64{0, 0.1, 1, 2.75, 1e6} {
			assert.Equal(t, amount, Convert(amount, unit, unit, nil), "unit %q amount %v", unit, amount)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	t.Parallel()

	for _, from := range Volumes() {
		for _, to := range Volumes() {
			for _, amount := range []float64{0.25, 1, 17.5, 750} {
				there := Convert(amount, from, to, nil)
				back := Convert(there, to, from, nil)
				assert.InEpsilon(t, amount, back, 1e-6, "%v %s -> %s -> %s", amount, from, to, from)
			}
		}
	}
}

func TestConvertBuiltinFactors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{"ounce to ml", 2, "oz", "ml", 59.147},
		{"fl oz alias", 1, "fl oz", "ml", 29.5735},
		{"liter to ml", 0.75, "L", "ml", 750},
		{"cl to ml", 3, "cl", "ml", 30},
		{"quart is 32 oz", 1, "qt", "oz", 32},
		{"gallon is 128 oz", 1, "gallon", "oz", 128},
		{"tbsp to tsp", 1, "tbsp", "tsp", 3},
		{"cup to ml", 1, "cup", "ml", 236.588},
		{"barspoon to ml", 2, "barspoon", "ml", 10},
		{"dash to ml", 2, "dashes", "ml", 1.25},
		{"kg to g", 1.5, "kg", "g", 1500},
		{"lb to g", 1, "lb", "g", 453.592},
		{"each to whole", 3, "each", "whole", 3},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Convert(tt.amount, tt.from, tt.to, nil), 1e-3)
		})
	}
}

func TestConvertCrossFamilyWithoutIngredientFails(t *testing.T) {
	t.Parallel()

	value, err := ConvertE(100, "g", "ml", nil)
	require.ErrorIs(t, err, ErrUnconvertible)
	assert.Zero(t, value)
	assert.Zero(t, Convert(100, "g", "ml", nil))
}

func TestConvertCustomConversions(t *testing.T) {
	t.Parallel()

	lemongrass := &models.Ingredient{
		Name: "Lemongrass",
		CustomConversions: []models.CustomConversion{
			{FromAmount: 1, FromUnit: "stalk", ToAmount: 4, ToUnit: "oz"},
		},
	}

	assert.InDelta(t, 8, Convert(2, "stalk", "oz", lemongrass), 1e-9)
	assert.InDelta(t, 0.5, Convert(2, "oz", "stalk", lemongrass), 1e-9)
	assert.InDelta(t, 4*mlPerOunce, Convert(1, "stalk", "ml", lemongrass), 1e-9)
	assert.InDelta(t, 1, Convert(4*mlPerOunce, "ml", "stalks", &models.Ingredient{
		CustomConversions: []models.CustomConversion{{FromAmount: 1, FromUnit: "stalks", ToAmount: 4, ToUnit: "oz"}},
	}), 1e-9)
	assert.Zero(t, Convert(1, "stalk", "g", lemongrass))
}

func TestConvertCustomFactorOnly(t *testing.T) {
	t.Parallel()

	bottle := &models.Ingredient{
		CustomConversions: []models.CustomConversion{
			{FromUnit: "bottle", ToUnit: "ml", ConversionFactor: 750},
		},
	}
	assert.InDelta(t, 1500, Convert(2, "bottle", "ml", bottle), 1e-9)
	assert.InDelta(t, 1, Convert(750, "ml", "bottle", bottle), 1e-9)
}

func TestConvertDensityBridge(t *testing.T) {
	t.Parallel()

	honey := &models.Ingredient{Name: "Honey", DensityValue: 1.42, DensityUnit: "g/ml"}
	assert.InDelta(t, 142, Convert(100, "ml", "g", honey), 1e-9)
	assert.InDelta(t, 100, Convert(142, "g", "ml", honey), 1e-9)

	sugar := &models.Ingredient{Name: "Sugar", DensityValue: 200, DensityUnit: "g/cup"}
	assert.InDelta(t, 200, Convert(1, "cup", "g", sugar), 1e-9)

	bare := &models.Ingredient{DensityValue: 1}
	assert.InDelta(t, 10, Convert(10, "g", "ml", bare), 1e-9)

	broken := &models.Ingredient{DensityValue: 1, DensityUnit: "ml/g"}
	assert.Zero(t, Convert(10, "g", "ml", broken))
}

func TestConvertCustomWinsOverDensity(t *testing.T) {
	t.Parallel()

	ingredient := &models.Ingredient{
		DensityValue: 1,
		CustomConversions: []models.CustomConversion{
			{FromAmount: 100, FromUnit: "g", ToAmount: 50, ToUnit: "ml"},
		},
	}
	assert.InDelta(t, 50, Convert(100, "g", "ml", ingredient), 1e-9)
}

func TestConvertTopIsUnquantified(t *testing.T) {
	t.Parallel()

	_, err := ConvertE(1, "top", "oz", nil)
	assert.ErrorIs(t, err, ErrUnquantified)
	assert.Zero(t, Convert(1, "oz", "top", nil))
	assert.True(t, IsTop(" Top "))
}

func TestConvertRejectsNonFiniteAmounts(t *testing.T) {
	t.Parallel()

	_, err := ConvertE(math.NaN(), "oz", "ml", nil)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Zero(t, Convert(math.Inf(1), "oz", "ml", nil))
}

func TestCanonicalAndKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Ounce, Canonical("  Fluid   Ounces "))
	assert.Equal(t, "stalk", Canonical("Stalk"))
	assert.Equal(t, KindVolume, KindOf("tbsp"))
	assert.Equal(t, KindWeight, KindOf("lbs"))
	assert.Equal(t, KindCount, KindOf("whole"))
	assert.Equal(t, KindUnknown, KindOf("stalk"))
	assert.Equal(t, "volume", KindVolume.String())
}

func TestGramsPerML(t *testing.T) {
	t.Parallel()

	assert.Zero(t, GramsPerML(nil))
	assert.InDelta(t, 1000.0/1000.0, GramsPerML(&models.Ingredient{DensityValue: 1, DensityUnit: "kg/l"}), 1e-9)
	assert.Zero(t, GramsPerML(&models.Ingredient{DensityValue: 1, DensityUnit: "kg"}))
}
