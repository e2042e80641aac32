package types

// Station is one row of the station catalog.
type Station struct {
	Province  string  `json:"province" validate:"required"`
	StationID string  `json:"stationId" validate:"required"`
	City      string  `json:"city" validate:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Observation is one simulated minute observation. Temperature, Pressure,
// WindSpeed, Rainfall and Visibility are in tenths of their unit.
type Observation struct {
	StationID     string `json:"stationId"`
	Timestamp     string `json:"timestamp"`
	Temperature   int    `json:"temperature"`
	Pressure      int    `json:"pressure"`
	Humidity      int    `json:"humidity"`
	WindDirection int    `json:"windDirection"`
	WindSpeed     int    `json:"windSpeed"`
	Rainfall      int    `json:"rainfall"`
	Visibility    int    `json:"visibility"`
}

// Batch carries the stations and observations of a single run.
type Batch struct {
	Stations     []Station
	Observations []Observation
}

// Reset drops both lists so nothing carries over into the next run.
func (b *Batch) Reset() {
	if b == nil {
		return
	}
	b.Stations = nil
	b.Observations = nil
}
