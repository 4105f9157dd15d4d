package weather

import "errors"

var (
	// ErrNoData is returned by export paths when the selected window holds no samples.
	// It is an expected outcome for an empty dataset, not an infrastructure failure.
	ErrNoData = errors.New("no weather data for the requested window")

	// ErrFetchFailed is returned when the upstream weather API cannot be
	// reached or answers with a non-success status.
	ErrFetchFailed = errors.New("upstream weather fetch failed")
)
