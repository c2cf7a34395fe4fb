package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "edumetrics.log")

	var console bytes.Buffer
	if err := initWith(&console, logPath, "debug"); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	LogEvent("hello %s", "world")
	log.Warn().Str("subject", "art").Msg("no marks")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"message":"hello world"`) {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, `"level":"warn"`) || !strings.Contains(content, `"subject":"art"`) {
		t.Fatalf("expected structured warning, got: %s", content)
	}
	if !strings.Contains(console.String(), "hello world") {
		t.Fatalf("expected console copy, got: %s", console.String())
	}
}

func TestInitLevelFilters(t *testing.T) {
	var console bytes.Buffer
	if err := initWith(&console, "", "warn"); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	LogEvent("hidden")
	log.Error().Msg("shown")
	if strings.Contains(console.String(), "hidden") {
		t.Fatalf("info event should be filtered at warn level: %s", console.String())
	}
	if !strings.Contains(console.String(), "shown") {
		t.Fatalf("error event missing: %s", console.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
	if err := Init("", "loud"); err == nil {
		t.Fatalf("expected Init to reject unknown level")
	}
}

func TestCloseWithoutFile(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("Close without file: %v", err)
	}
}
