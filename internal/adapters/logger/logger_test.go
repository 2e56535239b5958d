package logger_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"go.trai.ch/zerr"

	"go.trai.ch/quill/internal/adapters/logger"
)

func TestLogger_LevelsAndArgs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, slog.LevelDebug)

	log.Debug("resolving package", "spec", "@preview/example:0.1.0")
	log.Info("compiled", "pages", 2)
	log.Warn("slow font scan", "dir", "/usr/share/fonts")
	log.Error(zerr.New("boom"))

	out := buf.String()
	for _, want := range []string{
		"resolving package", "spec=@preview/example:0.1.0",
		"compiled", "pages=2",
		"slow font scan",
		"operation failed", "boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	log := logger.NewWithWriter(&first, slog.LevelInfo)

	log.Info("one")
	log.SetOutput(&second)
	log.Info("two")

	if !strings.Contains(first.String(), "one") || strings.Contains(first.String(), "two") {
		t.Errorf("first buffer wrong: %s", first.String())
	}
	if !strings.Contains(second.String(), "two") {
		t.Errorf("second buffer wrong: %s", second.String())
	}
}
