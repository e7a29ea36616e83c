package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lidarcal/internal/config"
	"lidarcal/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("parsed file", logging.Int("channels", 3))
	logger.Debug("skipping unknown record", logging.String(logging.FieldTag, "XYZZY"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "lidarcal.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"msg":"parsed file"`) {
		t.Fatalf("expected JSON message in log file, got %q", text)
	}
	if !strings.Contains(text, `"tag":"XYZZY"`) {
		t.Fatalf("expected debug records in log file, got %q", text)
	}
}

func TestConsoleLoggerLiftsSubjectIntoHeader(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "parser")
	logger.Info("profile appended",
		logging.File("/data/LR_20230315.txt"),
		logging.Channel("11"),
		logging.Int("doors", 2000),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "INFO [parser] LR_20230315.txt · channel 11 – profile appended") {
		t.Fatalf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "    - doors: 2000") {
		t.Fatalf("expected detail line, got %q", text)
	}
	if strings.Contains(text, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", text)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("skipping record", logging.String(logging.FieldTag, "XYZZY"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerFieldNames(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("calibration skipped", logging.Channel("2"), logging.Error(errors.New("short profile")))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if entry["level"] != "warn" || entry["msg"] != "calibration skipped" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry["channel"] != "2" || entry["error"] != "short profile" {
		t.Fatalf("unexpected attributes: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewComponentLoggerHandlesNil(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "archive")
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Info("discarded")
}
