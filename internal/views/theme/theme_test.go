package theme

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	if got := Resolve(" PRINT "); got.Key != PrintKey {
		t.Fatalf("expected print theme, got %q", got.Key)
	}
	if got := Resolve("neon"); got.Key != DefaultKey {
		t.Fatalf("expected fallback to default theme, got %q", got.Key)
	}
}

func TestOptionsResolve(t *testing.T) {
	t.Parallel()

	for _, option := range Options() {
		if Resolve(option.Value).Key != option.Value {
			t.Fatalf("option %q does not resolve to itself", option.Value)
		}
	}
}
