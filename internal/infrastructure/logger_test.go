package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nbadash/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	logger.Info("test message", "key", "value")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestInitializeLoggerOnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if first != second {
		t.Error("Expected the same logger instance on repeated initialization")
	}
	if GetLogger() != first {
		t.Error("GetLogger should return the initialized logger")
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "test with trace")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["trace_id"] != "test-trace-123" {
		t.Errorf("Expected trace_id='test-trace-123', got %v", logEntry["trace_id"])
	}
}

func TestTraceIDSurvivesWith(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(&buf, "info"), "gamelog")

	ctx := EnsureTraceID(context.Background())
	logger.InfoContext(ctx, "loaded")

	out := buf.String()
	if !strings.Contains(out, `"component":"gamelog"`) {
		t.Errorf("Expected component attribute, got %s", out)
	}
	if !strings.Contains(out, `"trace_id":"`+GetTraceID(ctx)+`"`) {
		t.Errorf("Expected generated trace id in output, got %s", out)
	}
}

func TestEnsureTraceIDKeepsExisting(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	if got := GetTraceID(EnsureTraceID(ctx)); got != "abc" {
		t.Errorf("Expected existing trace id to be kept, got %q", got)
	}
	if GetTraceID(EnsureTraceID(context.Background())) == "" {
		t.Error("Expected a generated trace id")
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLogLevel(tt.level); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")
	if WithError(logger, nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}
