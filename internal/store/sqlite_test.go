package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"weather-report-service/internal/weather"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "weather_test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeSamples(coord weather.Coordinate, base time.Time, n int) []weather.Sample {
	samples := make([]weather.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, weather.Sample{
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
			Latitude:    coord.Latitude,
			Longitude:   coord.Longitude,
			Temperature: 18 + float64(i)*0.25,
			Humidity:    55 + float64(i)*0.5,
			RecordedAt:  time.Now().UTC(),
		})
	}
	return samples
}

func TestReplaceAtDeduplicatesOverlappingWindows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coord := weather.Coordinate{Latitude: 52.5, Longitude: 13.4}
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Two reconciliations with overlapping hourly windows, as two successive
	// ingests would produce.
	if _, err := s.ReplaceAt(ctx, coord, makeSamples(coord, base, 48)); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	if _, err := s.ReplaceAt(ctx, coord, makeSamples(coord, base.Add(24*time.Hour), 48)); err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}

	samples, err := s.SelectWindow(ctx, &coord, time.Time{})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(samples) != 48 {
		t.Fatalf("expected 48 samples after second reconcile, got %d", len(samples))
	}

	seen := make(map[time.Time]bool)
	for _, smp := range samples {
		if seen[smp.Timestamp] {
			t.Fatalf("duplicate timestamp %s for coordinate", smp.Timestamp)
		}
		seen[smp.Timestamp] = true
	}
}

func TestReplaceAtIsolatesCoordinates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	berlin := weather.Coordinate{Latitude: 52.5, Longitude: 13.4}
	paris := weather.Coordinate{Latitude: 48.85, Longitude: 2.35}

	// Same timestamps for both coordinates; reconciliation of one must not
	// touch the other.
	if _, err := s.ReplaceAt(ctx, berlin, makeSamples(berlin, base, 24)); err != nil {
		t.Fatalf("berlin reconcile failed: %v", err)
	}
	if _, err := s.ReplaceAt(ctx, paris, makeSamples(paris, base, 24)); err != nil {
		t.Fatalf("paris reconcile failed: %v", err)
	}
	if _, err := s.ReplaceAt(ctx, berlin, makeSamples(berlin, base.Add(12*time.Hour), 24)); err != nil {
		t.Fatalf("berlin second reconcile failed: %v", err)
	}

	parisSamples, err := s.SelectWindow(ctx, &paris, time.Time{})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(parisSamples) != 24 {
		t.Fatalf("paris history changed by berlin reconcile: got %d samples", len(parisSamples))
	}
	for _, smp := range parisSamples {
		if smp.Timestamp.Before(base) || smp.Timestamp.After(base.Add(23*time.Hour)) {
			t.Fatalf("paris timestamp %s outside its original window", smp.Timestamp)
		}
	}
}

func TestReplaceAtRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	coord := weather.Coordinate{Latitude: 52.5, Longitude: 13.4}
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := s.ReplaceAt(ctx, coord, makeSamples(coord, base, 12)); err != nil {
		t.Fatalf("initial reconcile failed: %v", err)
	}

	// A batch with a duplicated timestamp violates the uniqueness constraint
	// mid-insert; the whole reconciliation must roll back.
	bad := makeSamples(coord, base.Add(6*time.Hour), 6)
	bad = append(bad, bad[0])

	if _, err := s.ReplaceAt(ctx, coord, bad); err == nil {
		t.Fatal("expected reconcile with duplicate timestamps to fail")
	}

	samples, err := s.SelectWindow(ctx, &coord, time.Time{})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(samples) != 12 {
		t.Fatalf("prior history lost after failed reconcile: got %d samples, want 12", len(samples))
	}
}

func TestSelectWindowCutoffAndOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	coord := weather.Coordinate{Latitude: 52.5, Longitude: 13.4}

	samples := []weather.Sample{
		{Timestamp: now.Add(-1 * time.Hour), Latitude: coord.Latitude, Longitude: coord.Longitude, Temperature: 21, Humidity: 60, RecordedAt: now},
		{Timestamp: now.Add(-72 * time.Hour), Latitude: coord.Latitude, Longitude: coord.Longitude, Temperature: 19, Humidity: 70, RecordedAt: now},
		{Timestamp: now.Add(-40 * time.Hour), Latitude: coord.Latitude, Longitude: coord.Longitude, Temperature: 20, Humidity: 65, RecordedAt: now},
	}
	if err := s.InsertAll(ctx, samples); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := s.SelectWindow(ctx, nil, now.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples inside the window, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(now.Add(-40 * time.Hour)) {
		t.Fatalf("expected oldest in-window sample first, got %s", got[0].Timestamp)
	}
	if !got[1].Timestamp.Equal(now.Add(-1 * time.Hour)) {
		t.Fatalf("expected newest sample last, got %s", got[1].Timestamp)
	}
}

func TestSelectWindowEmptyResultIsNotAnError(t *testing.T) {
	s := newTestStore(t)

	got, err := s.SelectWindow(context.Background(), nil, time.Time{})
	if err != nil {
		t.Fatalf("empty store select should not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no samples, got %d", len(got))
	}
}

func TestDeleteAtRemovesOnlyOneCoordinate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	berlin := weather.Coordinate{Latitude: 52.5, Longitude: 13.4}
	paris := weather.Coordinate{Latitude: 48.85, Longitude: 2.35}

	if err := s.InsertAll(ctx, makeSamples(berlin, base, 5)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := s.InsertAll(ctx, makeSamples(paris, base, 5)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := s.DeleteAt(ctx, berlin); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	all, err := s.SelectWindow(ctx, nil, time.Time{})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected only paris samples to remain, got %d rows", len(all))
	}
	for _, smp := range all {
		if smp.Latitude != paris.Latitude || smp.Longitude != paris.Longitude {
			t.Fatalf("unexpected surviving sample for %v", smp.Coordinate())
		}
	}
}
