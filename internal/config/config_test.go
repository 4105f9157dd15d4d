package config

import (
	"testing"

	"weather-report-service/internal/weather"
)

func TestParseCoordinates(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    []weather.Coordinate
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"single pair", "52.52:13.41", []weather.Coordinate{{Latitude: 52.52, Longitude: 13.41}}, false},
		{"multiple pairs", "52.52:13.41, 48.85:2.35", []weather.Coordinate{
			{Latitude: 52.52, Longitude: 13.41},
			{Latitude: 48.85, Longitude: 2.35},
		}, false},
		{"missing longitude", "52.52", nil, true},
		{"non-numeric", "north:south", nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseCoordinates(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseCoordinates(%q): expected error", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCoordinates(%q): unexpected error: %v", tc.raw, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("parseCoordinates(%q): got %d coordinates, want %d", tc.raw, len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("coordinate %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
