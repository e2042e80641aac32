// Package synth generates simulated minute observations for a station list.
package synth

import (
	"math/rand/v2"
	"time"

	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
)

// TimestampLayout is the observation timestamp format, YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// Range is an inclusive integer range.
type Range struct {
	Low  int
	High int
}

func (r Range) span() int { return r.High - r.Low + 1 }

// Contains reports whether v lies within r.
func (r Range) Contains(v int) bool { return v >= r.Low && v <= r.High }

// Measurement ranges in stored units (tenths for scaled fields).
var (
	TemperatureRange   = Range{Low: 0, High: 350}
	PressureRange      = Range{Low: 10000, High: 10264}
	HumidityRange      = Range{Low: 1, High: 100}
	WindDirectionRange = Range{Low: 0, High: 359}
	WindSpeedRange     = Range{Low: 0, High: 149}
	RainfallRange      = Range{Low: 0, High: 15}
	VisibilityRange    = Range{Low: 100000, High: 105100}
)

// Rand is the random source used for drawing values. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a generator seeded from the run's clock sample.
func NewRand(now time.Time) *rand.Rand {
	seed := uint64(now.UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// Synthesize returns one observation per station, in station order. All
// observations share the timestamp formatted from now.
func Synthesize(stations []types.Station, now time.Time, rng Rand) []types.Observation {
	ts := now.Format(TimestampLayout)

	out := make([]types.Observation, 0, len(stations))
	for _, st := range stations {
		out = append(out, types.Observation{
			StationID:     st.StationID,
			Timestamp:     ts,
			Temperature:   draw(rng, TemperatureRange),
			Pressure:      draw(rng, PressureRange),
			Humidity:      draw(rng, HumidityRange),
			WindDirection: draw(rng, WindDirectionRange),
			WindSpeed:     draw(rng, WindSpeedRange),
			Rainfall:      draw(rng, RainfallRange),
			Visibility:    draw(rng, VisibilityRange),
		})
	}
	return out
}

func draw(rng Rand, r Range) int {
	return r.Low + rng.IntN(r.span())
}
