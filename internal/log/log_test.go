package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})

	logger.Info("indexing skill", "name", "tool-design")

	out := buf.String()
	if !strings.Contains(out, "indexing skill") {
		t.Errorf("log output missing message, got %q", out)
	}
	if !strings.Contains(out, "name=tool-design") {
		t.Errorf("log output missing attribute, got %q", out)
	}
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{JSON: true})

	logger.Info("upserted document", "path", "docs/a.md")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v, got %q", err, buf.String())
	}
	if entry["msg"] != "upserted document" {
		t.Errorf("msg = %v, want %q", entry["msg"], "upserted document")
	}
	if entry["path"] != "docs/a.md" {
		t.Errorf("path = %v, want %q", entry["path"], "docs/a.md")
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn})

	logger.Debug("should be filtered")
	logger.Info("should also be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("low-severity entries leaked through filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestNewNop_DiscardsOutput(t *testing.T) {
	logger := NewNop()
	// Must not panic and must accept any level.
	logger.Debug("discarded")
	logger.Error("also discarded")
}
