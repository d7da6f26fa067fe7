package models

import "testing"

func TestCustomConversionRatio(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		conv CustomConversion
		want float64
	}{
		{"amounts", CustomConversion{FromAmount: 1, FromUnit: "stalk", ToAmount: 4, ToUnit: "oz"}, 4},
		{"factor fallback", CustomConversion{FromUnit: "stalk", ToUnit: "oz", ConversionFactor: 3}, 3},
		{"undefined", CustomConversion{FromUnit: "stalk", ToUnit: "oz"}, 0},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.conv.Ratio(); got != tt.want {
				t.Fatalf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindPrepAction(t *testing.T) {
	t.Parallel()

	lemon := Ingredient{
		Name: "Lemon",
		PrepActions: []PrepAction{
			{ID: "pa-1", Name: "juice", YieldAmount: 1.5, YieldUnit: "oz"},
			{ID: "pa-2", Name: "Peel", YieldAmount: 4, YieldUnit: "each"},
		},
	}

	if action, ok := lemon.FindPrepAction("pa-2"); !ok || action.Name != "Peel" {
		t.Fatalf("expected lookup by id, got %+v, %t", action, ok)
	}
	if action, ok := lemon.FindPrepAction("JUICE"); !ok || action.ID != "pa-1" {
		t.Fatalf("expected lookup by name, got %+v, %t", action, ok)
	}
	if _, ok := lemon.FindPrepAction("zest"); ok {
		t.Fatal("expected unknown prep action to be missing")
	}
	if _, ok := lemon.FindPrepAction(""); ok {
		t.Fatal("expected empty reference to be missing")
	}
}

func TestIsWashCategory(t *testing.T) {
	t.Parallel()

	if !IsWashCategory("Milk Wash") {
		t.Fatal("expected milk wash to be a wash category")
	}
	if IsWashCategory("Syrup") {
		t.Fatal("expected syrup not to be a wash category")
	}
}
