package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/JINGLONGGIT/weatherDC/internal/config"
)

// New builds the process logger. Output goes to stdout and, when cfg.LogFile
// is set, is appended to that file too. The returned func closes the file.
func New(cfg config.Config, version string, appName string) (*slog.Logger, func() error, error) {
	if cfg.LogFile == "" {
		return newLogger(os.Stdout, cfg, version, appName, false), func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
	}
	w := io.MultiWriter(os.Stdout, f)
	return newLogger(w, cfg, version, appName, true), f.Close, nil
}

func newLogger(w io.Writer, cfg config.Config, version string, appName string, noColor bool) *slog.Logger {
	if version == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.DateTime,
			NoColor:    noColor,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
