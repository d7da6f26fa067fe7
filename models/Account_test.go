package models

import "testing"

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"manager", "manager", RoleManager},
		{"bartender", " Bartender ", RoleBartender},
		{"unknown", "owner", RoleManager},
		{"empty", "", RoleManager},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeRole(tt.value); got != tt.want {
				t.Fatalf("NormalizeRole(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCanEditCosts(t *testing.T) {
	t.Parallel()

	if !(Account{Role: RoleManager}).CanEditCosts() {
		t.Fatal("expected manager to edit costs")
	}
	if (Account{Role: RoleBartender}).CanEditCosts() {
		t.Fatal("expected bartender to be read-only")
	}
}
