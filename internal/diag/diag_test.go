package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerWritesSingleLine(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Error("generation failed", "error", "asm: undefined fragment \"x\"")

	got := buf.String()
	if !strings.HasSuffix(got, "\n") || strings.Count(got, "\n") != 1 {
		t.Fatalf("record is not a single line: %q", got)
	}
	if !strings.Contains(got, "ERROR:") {
		t.Fatalf("record missing level prefix: %q", got)
	}
	if !strings.Contains(got, "generation failed") || !strings.Contains(got, "undefined fragment") {
		t.Fatalf("record missing message or attribute: %q", got)
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Debug("noise")
	if buf.Len() != 0 {
		t.Fatalf("debug record written despite info level: %q", buf.String())
	}
	logger.Info("signal")
	if buf.Len() == 0 {
		t.Fatal("info record dropped")
	}
}
