package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"backbar/internal/views/theme"
)

func TestPageRendersProvidedContent(t *testing.T) {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<section>costing</section>"))
		return err
	})

	var buf bytes.Buffer
	err := Page("Negroni <costing>", theme.Resolve(theme.PrintKey), content).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Negroni &lt;costing&gt;</title>") {
		t.Fatalf("expected escaped document title: %s", out)
	}
	if !strings.Contains(out, `data-theme="print"`) || !strings.Contains(out, "<section>costing</section>") {
		t.Fatalf("expected theme and content in output: %s", out)
	}
	if !strings.HasSuffix(out, "</html>") {
		t.Fatalf("expected a closed document: %s", out)
	}
}
