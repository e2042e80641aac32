// Package migrate applies the embedded SQLite schema for the station catalog.
// Files are named NNNN_name.sql and applied once each, in version order, each
// inside its own transaction.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
)

//go:embed sql/*.sql
var sqlFS embed.FS

const (
	migrationsDir = "sql"
	tableName     = "schema_migrations"
)

var migrationFileRe = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

type migration struct {
	version string
	name    string
	body    string
}

// Run applies every embedded migration not yet recorded in schema_migrations
// and returns how many were applied.
func Run(db *sql.DB) (int, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return 0, fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := Applied(db)
	if err != nil {
		return 0, fmt.Errorf("list applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	all, err := load(sqlFS)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, m := range all {
		if done[m.version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return n, fmt.Errorf("apply %s_%s.sql: %w", m.version, m.name, err)
		}
		slog.Info("migration applied", "version", m.version, "name", m.name)
		n++
	}
	return n, nil
}

// Applied lists recorded migration versions in ascending order.
func Applied(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT version FROM " + tableName + " ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close migration rows", "error", err)
		}
	}()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func load(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var out []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := migrationFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		body, err := fs.ReadFile(fsys, migrationsDir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		out = append(out, migration{version: m[1], name: m[2], body: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)
	`)
	return err
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(m.body); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO "+tableName+" (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
