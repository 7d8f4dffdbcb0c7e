package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lgdhemis/internal/config"
	"lgdhemis/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsComponentAndAttrs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "batch").Info("run finished", logging.Int("failed", 1), logging.String("subject", "subj A"))

	line := readLog(t, logPath)
	if !strings.Contains(line, " INFO batch: run finished") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "failed=1") {
		t.Fatalf("expected integer attr, got %q", line)
	}
	if !strings.Contains(line, `subject="subj A"`) {
		t.Fatalf("expected quoted attr with space, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", content)
	}
	if !strings.Contains(content, "WARN shown") {
		t.Fatalf("expected warn line, got %q", content)
	}
}

func TestJSONLoggerUsesCanonicalKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "tool failed", "tool_failed", logging.Int(logging.FieldExitCode, 2))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "error" {
		t.Fatalf("expected lower-case level, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry[logging.FieldEventType] != "tool_failed" {
		t.Fatalf("expected event_type to be injected, got %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error_hint, got %v", entry)
	}
	if entry[logging.FieldExitCode] != float64(2) {
		t.Fatalf("expected exit_code 2, got %v", entry[logging.FieldExitCode])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "console"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file", logging.String(logging.FieldRunID, "r1"))

	var entry map[string]any
	content := strings.TrimSpace(readLog(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName)))
	if err := json.Unmarshal([]byte(content), &entry); err != nil {
		t.Fatalf("expected JSON log file regardless of console format, got %q: %v", content, err)
	}
	if entry["msg"] != "hello file" || entry[logging.FieldRunID] != "r1" {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestNewWritesEveryOutput(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{a, b, a}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("twice")

	for _, path := range []string{a, b} {
		if got := strings.Count(readLog(t, path), "twice"); got != 1 {
			t.Fatalf("expected one line in %s, got %d", path, got)
		}
	}
}

func TestWithContextAddsRunAndSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithSubject(logging.WithRunID(context.Background(), "run-1"), "/in/subjA")
	logging.WithContext(ctx, logger).Error("boom", logging.Error(errors.New("bad")))

	content := readLog(t, logPath)
	for _, want := range []string{"run_id=run-1", "subject=/in/subjA", "error=bad"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "x")
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled at every level")
	}
}
