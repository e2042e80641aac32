package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JINGLONGGIT/weatherDC/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the station catalog database. At debug level every statement is
// logged through a logging connector.
func Open(cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn, err := buildDSN(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogLevel <= slog.LevelDebug && cfg.SQLiteDriver == "sqlite3" {
		connector, err := NewLoggingConnector(dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("db connector: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	// SQLite is best with low concurrency.
	if cfg.SQLiteMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func buildDSN(path string) (string, error) {
	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}

	if path == ":memory:" {
		return path, nil
	}

	// "file:/data/stations.db?x=y" is passed through with our params appended.
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
