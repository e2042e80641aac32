package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JINGLONGGIT/weatherDC/internal/config"
)

func TestNewLogger_JSONInRelease(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}

	logger := newLogger(&buf, cfg, "1.2.3", "surfgen", false)
	logger.Debug("hidden")
	logger.Info("run finished", "observations", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	want := map[string]any{
		"msg":          "run finished",
		"app":          "surfgen",
		"version":      "1.2.3",
		"env":          "prod",
		"observations": float64(3),
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}
}

func TestNewLogger_TextInDev(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}

	logger := newLogger(&buf, cfg, "dev", "surfgen", true)
	logger.Debug("catalog loaded", "stations", 2)

	out := buf.String()
	for _, want := range []string{"catalog loaded", "stations=2", "app=surfgen"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output contains color codes with NoColor set: %q", out)
	}
}

func TestNew_LogFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surfgen.log")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatalf("seed log file: %v", err)
	}
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo, LogFile: path}

	logger, closeLog, err := New(cfg, "1.0.0", "surfgen")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("written to file")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.HasPrefix(string(b), "previous\n") {
		t.Errorf("log file was truncated: %q", b)
	}
	if !strings.Contains(string(b), "written to file") {
		t.Errorf("log file missing record: %q", b)
	}
}

func TestNew_LogFileOpenError(t *testing.T) {
	cfg := config.Config{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")}
	if _, _, err := New(cfg, "dev", "surfgen"); err == nil {
		t.Fatal("New error = nil, want non-nil")
	}
}
