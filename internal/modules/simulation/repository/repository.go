// Package repository stores the station catalog in SQLite as an alternative
// to the text catalog file.
package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/insert-station.sql
var insertStationSQL string

//go:embed sql/delete-stations.sql
var deleteStationsSQL string

//go:embed sql/count-stations.sql
var countStationsSQL string

type StationRepository interface {
	// GetStations returns stations in the order they were imported.
	GetStations(ctx context.Context) ([]types.Station, error)
	// ReplaceStations swaps the whole catalog for stations in one transaction.
	ReplaceStations(ctx context.Context, stations []types.Station) error
	CountStations(ctx context.Context) (int, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) StationRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()

	out := make([]types.Station, 0)
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.Province, &s.StationID, &s.City, &s.Latitude, &s.Longitude, &s.Elevation); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) ReplaceStations(ctx context.Context, stations []types.Station) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback station import", "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteStationsSQL); err != nil {
		return fmt.Errorf("clear stations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStationSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Error("close insert statement", "error", closeErr)
		}
	}()

	for _, s := range stations {
		if _, err = stmt.ExecContext(ctx, s.StationID, s.Province, s.City, s.Latitude, s.Longitude, s.Elevation); err != nil {
			return fmt.Errorf("insert station %q: %w", s.StationID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repositoryImpl) CountStations(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countStationsSQL).Scan(&n)
	return n, err
}
