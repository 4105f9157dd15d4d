package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	// fetchLookbackDays is how far back the upstream fetch window starts,
	// in calendar days before today.
	fetchLookbackDays = 2

	// selectLookback is the reporting window applied by SelectWindow.
	selectLookback = 48 * time.Hour
)

// Service orchestrates fetching hourly data from the upstream provider and
// reconciling it with the sample store.
type Service struct {
	store    SampleStore
	provider HourlyProvider

	// locks serializes reconciliation per coordinate. Reconciliations for
	// different coordinates proceed in parallel; the lock is never held
	// across the network fetch.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	now func() time.Time
}

// NewService creates a new Service.
func NewService(store SampleStore, provider HourlyProvider) *Service {
	return &Service{
		store:    store,
		provider: provider,
		locks:    make(map[string]*sync.Mutex),
		now:      time.Now,
	}
}

// Ingest fetches the hourly series for the coordinate over the past two
// calendar days (inclusive), normalizes it, and replaces the coordinate's
// stored history with the result. Returns the number of samples stored.
//
// A response without an hourly section yields a zero-count success; a failed
// fetch aborts with no store changes at all.
func (s *Service) Ingest(ctx context.Context, coord Coordinate) (int, error) {
	end := s.now()
	start := end.AddDate(0, 0, -fetchLookbackDays)

	series, err := s.provider.FetchHourly(ctx, coord, start, end)
	if err != nil {
		log.Printf("ERROR: ingest fetch failed for %s: %v", coord.Key(), err)
		return 0, err
	}

	samples := s.normalize(coord, series)

	lock := s.coordLock(coord)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.store.ReplaceAt(ctx, coord, samples)
	if err != nil {
		return 0, fmt.Errorf("reconcile %s: %w", coord.Key(), err)
	}

	log.Printf("INFO: stored %d samples for %s", stored, coord.Key())
	return stored, nil
}

// SelectWindow returns the samples from the last 48 hours, ordered by
// timestamp ascending. Filtering to one coordinate requires both lat and lon;
// a one-sided filter cannot identify a location and is treated as no filter.
// An empty result is a valid outcome, not an error.
func (s *Service) SelectWindow(ctx context.Context, lat, lon *float64) ([]Sample, error) {
	var coord *Coordinate
	if lat != nil && lon != nil {
		coord = &Coordinate{Latitude: *lat, Longitude: *lon}
	}

	since := s.now().Add(-selectLookback)

	samples, err := s.store.SelectWindow(ctx, coord, since)
	if err != nil {
		return nil, fmt.Errorf("select window: %w", err)
	}
	return samples, nil
}

// normalize converts the raw parallel series into samples, dropping every
// index where temperature or humidity is null or the timestamp does not
// parse. No interpolation is attempted.
func (s *Service) normalize(coord Coordinate, series HourlySeries) []Sample {
	recordedAt := s.now().UTC()

	samples := make([]Sample, 0, len(series.Times))
	for i, raw := range series.Times {
		if i >= len(series.Temperatures) || i >= len(series.Humidities) {
			break
		}
		temp := series.Temperatures[i]
		hum := series.Humidities[i]
		if temp == nil || hum == nil {
			continue
		}

		ts, err := parseTimestamp(raw)
		if err != nil {
			log.Printf("WARN: dropping sample with bad timestamp %q for %s: %v", raw, coord.Key(), err)
			continue
		}

		samples = append(samples, Sample{
			Timestamp:   ts,
			Latitude:    coord.Latitude,
			Longitude:   coord.Longitude,
			Temperature: *temp,
			Humidity:    *hum,
			RecordedAt:  recordedAt,
		})
	}
	return samples
}

func (s *Service) coordLock(coord Coordinate) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	key := coord.Key()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// parseTimestamp accepts the upstream's ISO-8601 timestamps, which may carry
// an explicit zone suffix or none at all. Zoneless values are taken as UTC.
func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.ParseInLocation("2006-01-02T15:04", raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return ts, nil
}
