package logging_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidedeck/internal/config"
	"slidedeck/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "slidedeck.log"))
	if !strings.Contains(content, "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerFormatsSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		Outputs:     []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "store")
	logger.Info("document written",
		logging.String(logging.FieldEntityKind, "slides"),
		logging.String(logging.FieldEntityID, "abc"),
		logging.Bytes("size", 2048),
		logging.Int("components", 3),
		logging.String("name", "Opening night"),
	)

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO  store slides/abc: document written") {
		t.Fatalf("unexpected prefix, got %q", content)
	}
	for _, want := range []string{"size_bytes=\"2.0 KiB\"", "components=3", `name="Opening night"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
	if strings.Count(content, "\n") != 1 {
		t.Fatalf("expected a single line, got %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		Outputs:     []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, "source=logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		Outputs:     []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "entry skipped", "import_entry_skipped",
		logging.Error(errors.New("boom")),
		logging.Bytes("entry_size", 4096))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload[logging.FieldEventType] != "import_entry_skipped" {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload["entry_size_bytes"] != float64(4096) {
		t.Fatalf("expected raw byte count in json, got %v", payload["entry_size_bytes"])
	}
	if payload[logging.FieldImpact] == nil || payload[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default impact and hint, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWarnWithContextKeepsCallerFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{Outputs: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "thumbnail render failed", "thumbnail_failed",
		logging.String(logging.FieldImpact, "preview is stale"))

	content := readLog(t, logPath)
	if !strings.Contains(content, `impact="preview is stale"`) {
		t.Fatalf("expected caller impact, got %q", content)
	}
	if strings.Count(content, "impact=") != 1 {
		t.Fatalf("expected impact once, got %q", content)
	}
	if !strings.Contains(content, "event_type=thumbnail_failed") {
		t.Fatalf("expected default event type, got %q", content)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled")
	}
}
