package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

var _ lastfm.Logger = (*Adapter)(nil)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(newLogger(&buf, zerolog.DebugLevel))

	adapter.Debugf("lastfm: calling %s (attempt %d/%d)", "artist.getInfo", 1, 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "debug" || entry["component"] != "lastfm" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["message"] != "lastfm: calling artist.getInfo (attempt 1/3)" {
		t.Errorf("unexpected message %v", entry["message"])
	}
}

func TestAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(newLogger(&buf, zerolog.InfoLevel))

	adapter.Debugf("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug output to be filtered, got %q", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrobbler.log")

	logger, closer := New("info", path)
	logger.Info().Str("user", "rj").Msg("loaded profile")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"user":"rj"`) {
		t.Errorf("expected JSON entry in log file, got %q", data)
	}
}
