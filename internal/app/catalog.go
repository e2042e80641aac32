package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JINGLONGGIT/weatherDC/internal/config"
	"github.com/JINGLONGGIT/weatherDC/internal/db"
	"github.com/JINGLONGGIT/weatherDC/internal/migrate"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/catalog"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/repository"
)

// Migrate applies the station catalog schema to the SQLite database.
func Migrate(_ context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	n, err := migrate.Run(conn)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", n, "sqlitePath", cfg.SQLitePath)
	return nil
}

// Import replaces the SQLite station catalog with the stations of the text
// catalog named in the job file, migrating the schema first. It returns the
// number of stations imported.
func Import(ctx context.Context, cfg config.Config) (int, error) {
	jobFile, err := config.LoadFile(cfg.ConfigFile)
	if err != nil {
		return 0, err
	}
	catalogPath, err := jobFile.Lookup(config.KeyCatalogPath)
	if err != nil {
		return 0, err
	}
	if err := mustExist(catalogPath); err != nil {
		return 0, err
	}

	stations, err := catalog.LoadStations(catalogPath)
	if err != nil {
		return 0, err
	}

	conn, err := db.Open(cfg, slog.Default())
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if _, err := migrate.Run(conn); err != nil {
		return 0, err
	}
	if err := repository.NewRepository(conn).ReplaceStations(ctx, stations); err != nil {
		return 0, fmt.Errorf("import %s: %w", catalogPath, err)
	}

	slog.Info("station catalog imported", "path", catalogPath, "stations", len(stations), "sqlitePath", cfg.SQLitePath)
	return len(stations), nil
}
