package weather

import (
	"context"
	"time"
)

// HourlyProvider abstracts an upstream hourly weather source (e.g. Open-Meteo).
// Implementations return the raw parallel series for the inclusive calendar-date
// window [start, end]; normalization is the service's job.
type HourlyProvider interface {
	Name() string
	FetchHourly(ctx context.Context, coord Coordinate, start, end time.Time) (HourlySeries, error)
}

// SampleStore is the contract the persistent store must satisfy.
type SampleStore interface {
	// ReplaceAt atomically deletes every stored sample for the coordinate and
	// inserts the given ones in a single transaction. Samples for other
	// coordinates are untouched. Returns the number of rows inserted.
	ReplaceAt(ctx context.Context, coord Coordinate, samples []Sample) (int, error)

	// InsertAll bulk-inserts samples without touching existing rows.
	InsertAll(ctx context.Context, samples []Sample) error

	// DeleteAt removes every sample stored for the coordinate.
	DeleteAt(ctx context.Context, coord Coordinate) error

	// SelectWindow returns samples ordered by timestamp ascending. A nil coord
	// selects across all coordinates; a zero since applies no lower bound.
	// An empty result is not an error.
	SelectWindow(ctx context.Context, coord *Coordinate, since time.Time) ([]Sample, error)
}
