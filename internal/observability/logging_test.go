package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")

	if lc := GetContext(ctx); lc.RunID != "run-123" {
		t.Errorf("expected run-123, got %s", lc.RunID)
	}
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithStage(ctx, "assemble")
	ctx = WithTrigger(ctx, "fsnotify")

	lc := GetContext(ctx)
	if lc.RunID != "run-1" {
		t.Error("RunID was lost in chaining")
	}
	if lc.Stage != "assemble" {
		t.Error("Stage was lost in chaining")
	}
	if lc.Trigger != "fsnotify" {
		t.Error("Trigger was lost in chaining")
	}
}

func TestOverwriteContextValue(t *testing.T) {
	ctx := WithStage(context.Background(), "load")
	ctx = WithStage(ctx, "emit")

	if lc := GetContext(ctx); lc.Stage != "emit" {
		t.Errorf("expected emit, got %s", lc.Stage)
	}
}

func TestEmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	if lc.RunID != "" || lc.Stage != "" || lc.Trigger != "" {
		t.Error("expected empty context")
	}
}

func TestLogHelpersCarryContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	ctx := WithStage(WithRunID(context.Background(), "run-9"), "scan")

	InfoContext(ctx, "info message", slog.String("extra", "value"))
	WarnContext(ctx, "warn message")
	ErrorContext(ctx, "error message")
	DebugContext(ctx, "debug message")

	output := buf.String()
	for _, want := range []string{"run-9", `"stage":"scan"`, "info message", "warn message", "error message", "debug message", "extra"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in log output: %s", want, output)
		}
	}
}
