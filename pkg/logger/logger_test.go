package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_RespectsLevelAndService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf, Service: "adminctl"})

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}

	log.Warn().Msg("kept")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json entry: %v", err)
	}
	if entry["service"] != "adminctl" || entry["message"] != "kept" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestInit_IsSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "info", Output: &second})

	log := Get()
	log.Info().Msg("hello")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected only the first Init to take effect")
	}
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("expected info, got %s", got)
	}
	if got := parseLevel(" WARNING "); got.String() != "warn" {
		t.Fatalf("expected warn, got %s", got)
	}
}
