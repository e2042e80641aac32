// Package catalog reads the station catalog: one station per line,
// "province,stationId,city,latitude,longitude,elevation", no header.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	simerrors "github.com/JINGLONGGIT/weatherDC/internal/errors"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
)

const (
	fieldDelimiter = ","
	fieldCount     = 6

	// maxLineBytes bounds a single catalog line; longer lines are skipped.
	maxLineBytes = 64 * 1024

	provinceIdx  = 0
	stationIDIdx = 1
	cityIdx      = 2
	latitudeIdx  = 3
	longitudeIdx = 4
	elevationIdx = 5
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadStations opens the catalog at path and parses it. Lines that cannot be
// parsed are logged and skipped.
func LoadStations(path string) ([]types.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station catalog %s: %w: %w", path, simerrors.ErrFileOpen, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("close station catalog", "path", path, "error", closeErr)
		}
	}()

	stations, err := LoadStationsFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read station catalog %s: %w", path, err)
	}
	return stations, nil
}

// LoadStationsFrom parses catalog lines from r in order. A station id seen
// on an earlier line is skipped, matching the unique index of the SQLite
// catalog.
func LoadStationsFrom(r io.Reader) ([]types.Station, error) {
	stations := make([]types.Station, 0)
	seen := make(map[string]int)
	skipped := 0
	line := 0

	br := bufio.NewReader(r)
	for {
		text, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		if text != "" {
			line++
			if st, err := parseLine(text, seen); err != nil {
				skipped++
				slog.Warn("skipping catalog line", "line", line, "error", err)
			} else if st != nil {
				seen[st.StationID] = line
				stations = append(stations, *st)
			}
		}
		if readErr != nil {
			break
		}
	}
	slog.Debug("end of station catalog", "lines", line, "stations", len(stations), "skipped", skipped)

	return stations, nil
}

// parseLine returns nil, nil for blank lines.
func parseLine(text string, seen map[string]int) (*types.Station, error) {
	if len(text) > maxLineBytes {
		return nil, fmt.Errorf("%w: line is %d bytes, limit %d", simerrors.ErrInvalidStation, len(text), maxLineBytes)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	st, err := ParseStation(text)
	if err != nil {
		return nil, err
	}
	if first, dup := seen[st.StationID]; dup {
		return nil, fmt.Errorf("%w: duplicate station id %q, first on line %d", simerrors.ErrInvalidStation, st.StationID, first)
	}
	return &st, nil
}

// ParseStation parses a single catalog line.
func ParseStation(text string) (types.Station, error) {
	fields := strings.Split(strings.TrimRight(text, "\r\n"), fieldDelimiter)
	if len(fields) != fieldCount {
		return types.Station{}, fmt.Errorf("%w: got %d fields, want %d", simerrors.ErrInvalidStation, len(fields), fieldCount)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	lat, err := parseNumber("latitude", fields[latitudeIdx])
	if err != nil {
		return types.Station{}, err
	}
	lon, err := parseNumber("longitude", fields[longitudeIdx])
	if err != nil {
		return types.Station{}, err
	}
	elev, err := parseNumber("elevation", fields[elevationIdx])
	if err != nil {
		return types.Station{}, err
	}

	st := types.Station{
		Province:  fields[provinceIdx],
		StationID: fields[stationIDIdx],
		City:      fields[cityIdx],
		Latitude:  lat,
		Longitude: lon,
		Elevation: elev,
	}
	if err := validate.Struct(st); err != nil {
		return types.Station{}, fmt.Errorf("%w: %w", simerrors.ErrInvalidStation, err)
	}
	return st, nil
}

// parseNumber accepts finite decimals only; ParseFloat alone lets NaN and Inf
// through.
func parseNumber(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", simerrors.ErrInvalidStation, name, raw)
	}
	return v, nil
}
