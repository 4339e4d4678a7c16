package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/config"
)

func TestNewJSON(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	logger := New("ircmsg", config.Log{Level: "info", Format: config.LogFormatJSON}, &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Str("line", "PING").Msg("Parsed")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["app"] != "ircmsg" || entry["line"] != "PING" || entry["message"] != "Parsed" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("missing timestamp: %v", entry)
	}
}

func TestNewConsole(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	logger := New("example", config.Log{Level: "warn", Format: config.LogFormatConsole}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("Shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "Shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestEnvOverridesLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")
	logger := New("example", config.Log{Level: "error", Format: config.LogFormatJSON}, &bytes.Buffer{})
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		raw   string
		level zerolog.Level
		ok    bool
	}{
		{raw: "", level: zerolog.InfoLevel, ok: false},
		{raw: "trace", level: zerolog.TraceLevel, ok: true},
		{raw: " Warning ", level: zerolog.WarnLevel, ok: true},
		{raw: "off", level: zerolog.Disabled, ok: true},
		{raw: "loud", level: zerolog.InfoLevel, ok: false},
	}
	for _, tt := range testCases {
		level, ok := parseLevel(tt.raw)
		if level != tt.level || ok != tt.ok {
			t.Errorf("parseLevel(%q): expected %s %v, got %s %v", tt.raw, tt.level, tt.ok, level, ok)
		}
	}
}
