package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
		_ = SetLevel("info")
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := captureLogs(t)

	Info(context.Background(), "recipe costed", "recipe", "negroni")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}
	for _, want := range []string{"ts=", "level=info", `msg="recipe costed"`, "recipe=negroni"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line, got %q", want, line)
		}
	}
}

func TestRequestIDIsAttached(t *testing.T) {
	buf := captureLogs(t)

	ctx := WithRequestID(context.Background(), "req-123")
	Warn(ctx, "slow llm call")

	line := buf.String()
	if !strings.Contains(line, "level=warn") || !strings.Contains(line, "request_id=req-123") {
		t.Fatalf("expected warn level and request id, got %q", line)
	}
	if RequestID(nil) != "" {
		t.Fatal("expected nil context to carry no request id")
	}
}

func TestSetLevel(t *testing.T) {
	buf := captureLogs(t)

	if err := SetLevel("ERROR"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	Warn(context.Background(), "hidden")
	Error(context.Background(), "shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected unknown level to fail")
	}
}
