// Package layout renders the HTML document shell around back-office pages.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"backbar/internal/views/theme"
)

// Page wraps content in a standalone HTML document styled with t.
func Page(title string, t theme.SheetTheme, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title></head>`+
			`<body class="`+templ.EscapeString(t.BodyClass)+`" data-theme="`+templ.EscapeString(t.Key)+`">`+
			`<main class="`+templ.EscapeString(t.SheetClass)+`">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
