package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"trace":   logrus.TraceLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithOutput_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "info", "production")

	log.WithShow("show-1").WithField("format", "structured").Info("normalized")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["show_id"] != "show-1" || entry["msg"] != "normalized" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewWithOutput_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "warn", "local")

	log.Info("hidden")
	log.WithError(errors.New("boom")).Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "boom") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestWithError_Nil(t *testing.T) {
	log := Discard()
	if log.WithError(nil) != log.Entry {
		t.Error("WithError(nil) should return the base entry")
	}
}
