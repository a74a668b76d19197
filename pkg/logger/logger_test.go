package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/fscore/pkg/config"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&config.Config{Env: "test", LogLevel: tt.level, LogFormat: "json"}, &buf)

			if log.Level() != tt.wantLevel {
				t.Errorf("Expected level %v, got %v", tt.wantLevel, log.Level())
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger_TagsAppAndEnv(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}, &buf)

	log.Info("run started")

	entry := decode(t, &buf)
	if entry["app"] != AppName {
		t.Errorf("Expected app %q, got %v", AppName, entry["app"])
	}
	if entry["env"] != "production" {
		t.Errorf("Expected env production, got %v", entry["env"])
	}
	if entry["message"] != "run started" {
		t.Errorf("Expected message 'run started', got %v", entry["message"])
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "warn", LogFormat: "json"}, &buf)

	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output below warn, got %q", buf.String())
	}

	log.WithField("skipped", 2).Warn("skipped tickers")
	entry := decode(t, &buf)
	if entry["level"] != "warn" || entry["message"] != "skipped tickers" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "test", LogLevel: "debug", LogFormat: "json"}, &buf)

	log.WithTicker("AAPL").
		WithFields(map[string]interface{}{"anchor_year": "2023", "year_count": 4}).
		WithError(errors.New("anchor_mismatch")).
		Debug("ticker rejected")

	entry := decode(t, &buf)
	if entry["ticker"] != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %v", entry["ticker"])
	}
	if entry["anchor_year"] != "2023" {
		t.Errorf("Expected anchor_year 2023, got %v", entry["anchor_year"])
	}
	if entry["year_count"] != float64(4) {
		t.Errorf("Expected year_count 4, got %v", entry["year_count"])
	}
	if entry["error"] != "anchor_mismatch" {
		t.Errorf("Expected error anchor_mismatch, got %v", entry["error"])
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	for _, format := range []string{"console", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&config.Config{Env: "test", LogLevel: "info", LogFormat: format}, &buf)

			log.Info("test message")

			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("Expected output to contain 'test message', got: %s", buf.String())
			}
			if strings.HasPrefix(buf.String(), "{") {
				t.Errorf("Expected human-readable output, got JSON: %s", buf.String())
			}
		})
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	// must not panic
	log.WithField("k", "v").Error("discarded")
	if log.Level() != zerolog.Disabled {
		t.Errorf("Expected disabled level, got %v", log.Level())
	}
}
