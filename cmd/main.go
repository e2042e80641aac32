package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JINGLONGGIT/weatherDC/internal/app"
	"github.com/JINGLONGGIT/weatherDC/internal/config"
	"github.com/JINGLONGGIT/weatherDC/internal/logging"
)

const (
	appName = "surfgen"

	exitOK      = 0
	exitFailure = -1
)

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

const usage = `usage: %s [command]
  run      generate one batch of simulated observations (default)
  migrate  apply the SQLite station catalog schema
  import   load the text station catalog into SQLite
`

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	command := "run"
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "run", "migrate", "import":
	case "-h", "--help", "help":
		fmt.Fprintf(os.Stdout, usage, appName)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintf(os.Stderr, usage, appName)
		return exitFailure
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		return exitFailure
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return exitFailure
	}

	logger, closeLog, err := logging.New(cfg, version, appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("starting",
		"command", command,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "migrate":
		err = app.Migrate(ctx, cfg)
	case "import":
		_, err = app.Import(ctx, cfg)
	default:
		err = app.Run(ctx, cfg)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error(command+" failed", "err", err)
		return exitFailure
	}

	slog.Info("shutting down")
	return exitOK
}
