package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	CatalogSourceFile   = "file"
	CatalogSourceSQLite = "sqlite"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// LogFile, when set, receives a copy of every log line (appended).
	LogFile string

	// ConfigFile is the YAML job file holding the catalog and output paths.
	ConfigFile string

	CatalogSource string

	SQLiteDriver          string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration

	// RunSchedule is a cron expression; empty means a single run.
	RunSchedule string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	configFile := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if configFile == "" {
		configFile = "config.yaml"
	}

	catalogSource := strings.ToLower(strings.TrimSpace(os.Getenv("CATALOG_SOURCE")))
	if catalogSource == "" {
		catalogSource = CatalogSourceFile
	}
	switch catalogSource {
	case CatalogSourceFile, CatalogSourceSQLite:
	default:
		return Config{}, fmt.Errorf("invalid CATALOG_SOURCE %q (allowed: file, sqlite)", catalogSource)
	}

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "data/stations.db"
	}

	maxOpenConns, err := intFromEnv("DB_MAX_OPEN_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := intFromEnv("DB_MAX_IDLE_CONNS", 1)
	if err != nil {
		return Config{}, err
	}

	connMaxLifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if connMaxLifetimeStr == "" {
		connMaxLifetimeStr = "0s"
	}
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		LogFile:               strings.TrimSpace(os.Getenv("LOG_FILE")),
		ConfigFile:            configFile,
		CatalogSource:         catalogSource,
		SQLiteDriver:          driver,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		RunSchedule:           strings.TrimSpace(os.Getenv("RUN_SCHEDULE")),
	}, nil
}

func intFromEnv(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
