package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"error":   LogLevelError,
		"WARN":    LogLevelWarn,
		"warning": LogLevelWarn,
		"info":    LogLevelInfo,
		"debug":   LogLevelDebug,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDebugLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDebugLoggerTo(&buf, LogLevelInfo, false)

	logger.DebugWithContext("hidden", "", "", "", nil)
	logger.InfoWithContext("shown", "", "", "", nil)

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message written at info level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info message missing")
	}

	logger.SetLevel(LogLevelDebug)
	logger.DebugWithContext("now visible", "", "", "", nil)
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug message missing after SetLevel")
	}
	if !logger.ShouldLog(LogLevelDebug) {
		t.Error("ShouldLog(debug) should be true")
	}
}

func TestDebugLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDebugLoggerTo(&buf, LogLevelDebug, true)

	logger.WarnWithContext("fetch failed", "auditor", "check", "https://example.com/feed",
		errors.New("boom"), map[string]any{"attempt": 1})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not a JSON line: %v\n%s", err, buf.String())
	}

	want := map[string]any{
		"message":   "fetch failed",
		"level":     "warn",
		"component": "auditor",
		"operation": "check",
		"url":       "https://example.com/feed",
		"error":     "boom",
		"attempt":   float64(1),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestDebugLogger_SetJSONMode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDebugLoggerTo(&buf, LogLevelInfo, false)

	logger.InfoWithContext("plain", "", "", "", nil)
	logger.SetJSONMode(true)
	logger.InfoWithContext("structured", "", "", "", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if strings.HasPrefix(lines[0], "{") {
		t.Errorf("first line should be console text: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "{") {
		t.Errorf("second line should be JSON: %s", lines[1])
	}
}

func TestDebugLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDebugLoggerTo(&buf, LogLevelError, true)

	logger.Error("command failed", errors.New("disk full"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not a JSON line: %v\n%s", err, buf.String())
	}
	if entry["level"] != "error" || entry["message"] != "command failed" || entry["error"] != "disk full" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestDebugLogger_LogFeedError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDebugLoggerTo(&buf, LogLevelError, true)

	fe := NewFeedErrorWithCause(ErrorTypeSystem, "failed to read snapshot", errors.New("no such file")).
		WithPath("/tmp/missing.json").
		WithOperation("load_snapshot").
		WithComponent("snapshot_store")
	logger.LogFeedError(fe)
	logger.LogFeedError(nil)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not a single JSON line: %v\n%s", err, buf.String())
	}
	if entry["error_id"] != fe.ID || entry["error_type"] != "system" || entry["path"] != "/tmp/missing.json" {
		t.Errorf("missing FeedError context: %v", entry)
	}
	if entry["component"] != "snapshot_store" || entry["operation"] != "load_snapshot" {
		t.Errorf("missing component/operation: %v", entry)
	}
}
