package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil || logger.Logger == nil {
		t.Fatal("NewLogger() returned an unusable logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected slog.Level
		known    bool
	}{
		{"debug", "DEBUG", slog.LevelDebug, true},
		{"info", "INFO", slog.LevelInfo, true},
		{"warn", "WARN", slog.LevelWarn, true},
		{"warning", "WARNING", slog.LevelWarn, true},
		{"error", "ERROR", slog.LevelError, true},
		{"lowercase", "debug", slog.LevelDebug, true},
		{"padded", "  warn ", slog.LevelWarn, true},
		{"invalid", "LOUD", slog.LevelInfo, false},
		{"empty", "", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, known := ParseLevel(tt.value)
			if level != tt.expected || known != tt.known {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.value, level, known, tt.expected, tt.known)
			}
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnvVar, "error")
	if level := getLogLevelFromEnv(); level != slog.LevelError {
		t.Errorf("Expected ERROR, got %v", level)
	}

	t.Setenv(LevelEnvVar, "")
	if level := getLogLevelFromEnv(); level != slog.LevelInfo {
		t.Errorf("Expected INFO default, got %v", level)
	}
}

func TestCorrelationID(t *testing.T) {
	t.Run("generate", func(t *testing.T) {
		id1 := GenerateCorrelationID()
		id2 := GenerateCorrelationID()
		if len(id1) != 16 || len(id2) != 16 {
			t.Errorf("Expected 16 hex characters, got %q and %q", id1, id2)
		}
		if id1 == id2 {
			t.Error("GenerateCorrelationID() returned duplicate IDs")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "level-3-run")
		if got := GetCorrelationID(ctx); got != "level-3-run" {
			t.Errorf("Expected level-3-run, got %q", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if got := GetCorrelationID(context.Background()); got != "" {
			t.Errorf("Expected empty ID, got %q", got)
		}
	})

	t.Run("auto generate", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		if got := GetCorrelationID(ctx); len(got) != 16 {
			t.Errorf("Expected generated ID, got %q", got)
		}
	})
}

func TestSanitizeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"password", slog.String("password", "hunter2"), "[REDACTED]"},
		{"token", slog.String("auth_token", "abc"), "[REDACTED]"},
		{"secret", slog.String("api_secret", "abc"), "[REDACTED]"},
		{"private key", slog.String("ssh_private_key", "-----BEGIN"), "[REDACTED]"},
		{"uppercase", slog.String("PASSWORD", "abc"), "[REDACTED]"},
		{"plain", slog.String("level_name", "Getting Started"), "Getting Started"},
		{"host key path", slog.String("host_key_path", ".ssh/id_ed25519"), ".ssh/id_ed25519"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeAttributes(nil, tt.attr)
			if result.Value.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Value.String())
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithCorrelationID(context.Background(), "run-42")

	t.Run("info", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "bird launched", "bird", "red")
		entry := decodeEntry(t, &buf)
		if entry["msg"] != "bird launched" || entry["level"] != "INFO" {
			t.Errorf("Unexpected entry: %v", entry)
		}
		if entry["correlation_id"] != "run-42" {
			t.Errorf("Expected correlation_id run-42, got %v", entry["correlation_id"])
		}
		if entry["bird"] != "red" {
			t.Errorf("Expected bird red, got %v", entry["bird"])
		}
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "level load failed", errors.New("bad yaml"))
		entry := decodeEntry(t, &buf)
		if entry["level"] != "ERROR" || entry["error"] != "bad yaml" {
			t.Errorf("Unexpected entry: %v", entry)
		}
	})

	t.Run("error without err", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "no cause", nil)
		entry := decodeEntry(t, &buf)
		if _, ok := entry["error"]; ok {
			t.Errorf("Expected no error attribute, got %v", entry["error"])
		}
	})

	t.Run("debug", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "tick")
		if entry := decodeEntry(t, &buf); entry["level"] != "DEBUG" {
			t.Errorf("Expected DEBUG, got %v", entry["level"])
		}
	})

	t.Run("warn", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "frame capped")
		if entry := decodeEntry(t, &buf); entry["level"] != "WARN" {
			t.Errorf("Expected WARN, got %v", entry["level"])
		}
	})
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelWarn)

	logger.Info(context.Background(), "hidden")
	logger.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected records below WARN to be dropped, got %q", buf.String())
	}

	logger.Warn(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected WARN record, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo).WithComponent("engine")

	logger.Info(context.Background(), "level won")

	if entry := decodeEntry(t, &buf); entry["component"] != "engine" {
		t.Errorf("Expected component engine, got %v", entry["component"])
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error(context.Background(), "dropped", errors.New("boom"))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected discard logger to disable ERROR")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("Expected nil for nil error")
	}

	original := errors.New("original error")
	wrapped := WrapError(original, "loading level %d", 2)
	if wrapped.Error() != "loading level 2: original error" {
		t.Errorf("Unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("WrapError() should preserve the original error")
	}
}

func TestLogWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	logger.Info(context.Background(), "plain")

	if strings.Contains(buf.String(), "correlation_id") {
		t.Error("Log should not contain correlation_id when none is set")
	}
}
