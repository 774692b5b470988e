package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "dev": ModeDev, "PROD": ModeProd, "silent": ModeSilence, "silence": ModeSilence}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(ModeProd, &buf)
	log.Debug("hidden")
	log.Info("shown", "game", "genshin")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["game"] != "genshin" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestDevLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	New(ModeDev, &buf).Debug("pool registered", "pool", "character")
	if !strings.Contains(buf.String(), "pool=character") {
		t.Fatalf("debug record missing: %q", buf.String())
	}
}

func TestSilenceDropsEverything(t *testing.T) {
	var buf bytes.Buffer
	New(ModeSilence, &buf).Error("boom")
	if buf.Len() != 0 {
		t.Fatalf("silent logger wrote %q", buf.String())
	}
}
