package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/pkg/core/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"debug", mdwlog.LevelDebug},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"", mdwlog.LevelInfo},
		{"nonsense", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger_Outputs(t *testing.T) {
	var primary, extra bytes.Buffer
	cfg := DefaultLoggerConfig("nclpost")
	cfg.Output = &primary
	cfg.AdditionalOutputs = []io.Writer{&extra}

	NewLogger(cfg).Info("hello")

	if !strings.Contains(primary.String(), "hello") {
		t.Errorf("primary output missing message: %q", primary.String())
	}
	if primary.String() != extra.String() {
		t.Errorf("additional output differs: %q vs %q", primary.String(), extra.String())
	}
	if !strings.Contains(primary.String(), "{nclpost}") {
		t.Errorf("text output should carry the logger name: %q", primary.String())
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig("nclpost")
	cfg.Format = "json"
	cfg.Output = &buf

	NewLogger(cfg).Info("hello")

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger := FromConfig(cfg, false, "", &buf)
	if logger.GetLevel() != mdwlog.LevelInfo {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}

	logger = FromConfig(cfg, true, "json", &buf)
	if logger.GetLevel() != mdwlog.LevelDebug {
		t.Errorf("verbose level = %v, want debug", logger.GetLevel())
	}
	logger.Debug("visible")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("format override ignored: %q", buf.String())
	}

	cfg.General.LogLevel = "trace"
	if got := FromConfig(cfg, true, "", &buf).GetLevel(); got != mdwlog.LevelTrace {
		t.Errorf("verbose must not raise trace to debug, got %v", got)
	}
}
