package theme

import "strings"

// Option represents a selectable theme exposed to the UI.
type Option struct {
	Value string
	Label string
}

// SheetTheme contains the styling primitives for rendered back-office pages.
type SheetTheme struct {
	Key            string
	BodyClass      string
	SheetClass     string
	AttentionClass string
	MutedTextClass string
}

const (
	// DefaultKey is the on-screen theme used behind the bar.
	DefaultKey = "service"
	// PrintKey renders black on white for printed costing sheets.
	PrintKey = "print"
)

var catalogue = map[string]SheetTheme{
	DefaultKey: {
		Key:            DefaultKey,
		BodyClass:      "min-h-screen bg-zinc-950 text-zinc-100",
		SheetClass:     "sheet sheet-dark",
		AttentionClass: "text-amber-400",
		MutedTextClass: "text-zinc-400",
	},
	PrintKey: {
		Key:            PrintKey,
		BodyClass:      "bg-white text-black",
		SheetClass:     "sheet sheet-print",
		AttentionClass: "font-bold underline",
		MutedTextClass: "text-neutral-600",
	},
}

var options = []Option{
	{Value: DefaultKey, Label: "Service (Dark)"},
	{Value: PrintKey, Label: "Print"},
}

// Resolve returns the registered theme for key, falling back to the default.
func Resolve(key string) SheetTheme {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if value, ok := catalogue[normalized]; ok {
		return value
	}
	return catalogue[DefaultKey]
}

// Options exposes the available themes for a selector.
func Options() []Option {
	return options
}
