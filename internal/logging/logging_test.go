package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger, err := Setup("debug", "json", &buf)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Debug("wrote artifact", "path", "out.json")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q", buf.String())
	}
	if entry["msg"] != "wrote artifact" || entry["path"] != "out.json" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupConsoleLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	if _, err := Setup("warn", "console", &buf); err != nil {
		t.Fatal(err)
	}
	slog.Info("hidden")
	slog.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSetupRejectsUnknown(t *testing.T) {
	if _, err := Setup("loud", "console", nil); err == nil {
		t.Error("expected level error")
	}
	if _, err := Setup("info", "xml", nil); err == nil {
		t.Error("expected format error")
	}
}
