package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	log := Get()
	log.Info(ctx, "info message", String("key", "value"), Int("count", 3))
	log.Warn(ctx, "warn message", Float64("pp", 123.45))
	log.Error(ctx, "error message", Error(nil))

	named := Named("component")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Debug(ctx, "debug message", Int64("id", 42))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, c := range cases {
		if err := SetLevelString(c.in); err != nil {
			t.Fatalf("SetLevelString(%q): %v", c.in, err)
		}
		if got := levelVar.Level(); got != c.want {
			t.Errorf("SetLevelString(%q) set %v, want %v", c.in, got, c.want)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
