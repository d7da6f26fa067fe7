package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backbar/models"
)

func TestBuildCustomUnitIndex(t *testing.T) {
	t.Parallel()

	ingredients := []models.Ingredient{
		{Name: "Mint", CustomConversions: []models.CustomConversion{
			{FromAmount: 1, FromUnit: "sprig", ToAmount: 2, ToUnit: "g"},
		}},
		{Name: "Lemongrass", CustomConversions: []models.CustomConversion{
			{FromAmount: 1, FromUnit: "stalk", ToAmount: 4, ToUnit: "oz"},
			{FromAmount: 0, FromUnit: "bunch", ToAmount: 0, ToUnit: "oz"},
		}},
		{Name: "Basil", CustomConversions: []models.CustomConversion{
			{FromAmount: 1, FromUnit: "Sprig", ToAmount: 1, ToUnit: "g"},
		}},
	}
	ingredients[0].ID, ingredients[1].ID, ingredients[2].ID = 1, 2, 3

	index := BuildCustomUnitIndex(ingredients)
	assert.Equal(t, []string{"sprig", "stalk"}, index.Units())

	sprigs := index.Lookup("SPRIG")
	require.Len(t, sprigs, 2)
	assert.Equal(t, "Basil", sprigs[0].IngredientName)
	assert.Equal(t, "Mint", sprigs[1].IngredientName)

	assert.Empty(t, index.Lookup("bunch"))
	assert.Empty(t, index.Lookup("oz"))
}

func TestBuildCustomUnitIndexDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	ingredients := []models.Ingredient{{Name: "Mint", CustomConversions: []models.CustomConversion{
		{FromAmount: 1, FromUnit: "sprig", ToAmount: 2, ToUnit: "g"},
	}}}
	first := BuildCustomUnitIndex(ingredients)
	second := BuildCustomUnitIndex(ingredients)
	assert.Equal(t, first, second)
	assert.Len(t, ingredients[0].CustomConversions, 1)
}
