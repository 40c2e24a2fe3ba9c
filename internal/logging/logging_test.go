package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", level, err)
		}
		if !logger.Core().Enabled(mustLevel(t, level)) {
			t.Fatalf("expected level %s to be enabled", level)
		}
	}

	if _, err := New("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewFiltersLowerLevels(t *testing.T) {
	t.Parallel()

	logger, err := New("warn")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Core().Enabled(mustLevel(t, "info")) {
		t.Fatal("expected info to be filtered at warn level")
	}
}

func mustLevel(t *testing.T, level string) zapcore.Level {
	t.Helper()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}
	return lvl
}
