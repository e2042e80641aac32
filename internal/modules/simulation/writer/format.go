package writer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
)

const (
	lineSeparator = ", "
	lineFields    = 9
)

// FormatLine renders obs as
// "stationId, timestamp, T, P, H, WD, WS, R, V\n". Tenths fields get one
// decimal place, humidity and wind direction are plain integers.
func FormatLine(obs types.Observation) string {
	fields := []string{
		obs.StationID,
		obs.Timestamp,
		tenths(obs.Temperature),
		tenths(obs.Pressure),
		strconv.Itoa(obs.Humidity),
		strconv.Itoa(obs.WindDirection),
		tenths(obs.WindSpeed),
		tenths(obs.Rainfall),
		tenths(obs.Visibility),
	}
	return strings.Join(fields, lineSeparator) + "\n"
}

// ParseLine is the inverse of FormatLine.
func ParseLine(line string) (types.Observation, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), lineSeparator)
	if len(fields) != lineFields {
		return types.Observation{}, fmt.Errorf("observation line: got %d fields, want %d", len(fields), lineFields)
	}

	obs := types.Observation{
		StationID: fields[0],
		Timestamp: fields[1],
	}

	var err error
	targets := []struct {
		name   string
		dst    *int
		scaled bool
	}{
		{"temperature", &obs.Temperature, true},
		{"pressure", &obs.Pressure, true},
		{"humidity", &obs.Humidity, false},
		{"windDirection", &obs.WindDirection, false},
		{"windSpeed", &obs.WindSpeed, true},
		{"rainfall", &obs.Rainfall, true},
		{"visibility", &obs.Visibility, true},
	}
	for i, tgt := range targets {
		raw := fields[i+2]
		if tgt.scaled {
			*tgt.dst, err = parseTenths(raw)
		} else {
			*tgt.dst, err = strconv.Atoi(raw)
		}
		if err != nil {
			return types.Observation{}, fmt.Errorf("observation line: %s %q: %w", tgt.name, raw, err)
		}
	}
	return obs, nil
}

func tenths(v int) string {
	return strconv.FormatFloat(float64(v)/10, 'f', 1, 64)
}

func parseTenths(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f * 10)), nil
}
