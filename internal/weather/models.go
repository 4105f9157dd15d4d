package weather

import (
	"strconv"
	"time"
)

// Coordinate identifies the geographic location a sample belongs to.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for indexing this coordinate in locks.
func (c Coordinate) Key() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ":" +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// String renders the coordinate as "lat, lon" for report metadata and filenames.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ", " +
		strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Sample is one hourly weather observation for a coordinate.
// The (Latitude, Longitude, Timestamp) tuple is unique within the store.
type Sample struct {
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
	RecordedAt  time.Time `json:"recordedAt"` // row creation instant, audit only
}

// Coordinate returns the sample's location.
func (s Sample) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// HourlySeries is the raw parallel-array payload an upstream provider returns
// for one fetch window. Temperatures and Humidities hold pointers because the
// upstream reports gaps as nulls; all three slices are index-aligned.
type HourlySeries struct {
	Times        []string
	Temperatures []*float64
	Humidities   []*float64
}
