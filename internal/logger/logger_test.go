package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"info":  zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", FileConfig{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", zap.Int("chunks", 3))
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"chunks": 3`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.log")
	if err := InitWithFileConfig("debug", DefaultFileConfig(path), false); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
	})

	Debug("tick", zap.Int("visible", 21))
	Named("streamer").Info("reloaded")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), data)
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if first["msg"] != "tick" || first["visible"] != float64(21) || first["level"] != "debug" {
		t.Errorf("first entry = %v", first)
	}
	if !strings.Contains(lines[1], `"logger":"streamer"`) {
		t.Errorf("named logger missing: %s", lines[1])
	}
}

func TestNoOutputIsNop(t *testing.T) {
	l, err := New("info", FileConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs should be a no-op")
	}
}
