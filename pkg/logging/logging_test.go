package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_DebugForcesDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "ERROR", true)
	log.Debug("breakpoint crossed", "point", "md", "direction", "up")

	out := buf.String()
	if !strings.Contains(out, "point=md") || !strings.Contains(out, "direction=up") {
		t.Errorf("Expected crossing to be logged, got %q", out)
	}

	buf.Reset()
	log = New(&buf, "WARN", false)
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected INFO suppressed at WARN, got %q", buf.String())
	}
}

func TestNew_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "TRACE", false)
	log.Log(context.Background(), LevelTrace, "deep")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("Expected TRACE label, got %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	log, closer, err := OpenFile("", "INFO", false)
	if err != nil || log == nil || closer == nil {
		t.Fatalf("OpenFile(\"\") = %v, %v, %v", log, closer, err)
	}

	path := filepath.Join(t.TempDir(), "logs", "bpwatch.log")
	log, closer, err = OpenFile(path, "INFO", false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	log.Info("hello", "width", 120)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "width=120") {
		t.Errorf("log file = %q", data)
	}
}
