package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"weather-report-service/internal/weather"
)

// OpenMeteoProvider implements weather.HourlyProvider against the Open-Meteo
// forecast API. Open-Meteo requires no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider with a circuit breaker and an
// outbound rate limiter. rps may be fractional for less than one request per
// second; burst is the maximum burst size allowed.
func NewOpenMeteoProvider(client *http.Client, baseURL string, rps float64, burst int) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly requests the hourly temperature and relative humidity series for
// the inclusive calendar-date window [start, end]. The request is made once;
// any transport error or non-2xx status surfaces as weather.ErrFetchFailed.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, coord weather.Coordinate, start, end time.Time) (weather.HourlySeries, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return weather.HourlySeries{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	values.Set("hourly", "temperature_2m,relative_humidity_2m")
	values.Set("start_date", start.Format("2006-01-02"))
	values.Set("end_date", end.Format("2006-01-02"))
	values.Set("timezone", "auto")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.HourlySeries{}, err
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		resp, execErr := p.client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrFetchFailed, execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: unexpected status %d", weather.ErrFetchFailed, resp.StatusCode)
		}

		// A payload without an "hourly" section decodes to empty slices,
		// which the caller treats as a zero-count success.
		var payload struct {
			Hourly struct {
				Time        []string   `json:"time"`
				Temperature []*float64 `json:"temperature_2m"`
				Humidity    []*float64 `json:"relative_humidity_2m"`
			} `json:"hourly"`
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&payload); decErr != nil {
			return nil, fmt.Errorf("%w: decode response: %v", weather.ErrFetchFailed, decErr)
		}

		return weather.HourlySeries{
			Times:        payload.Hourly.Time,
			Temperatures: payload.Hourly.Temperature,
			Humidities:   payload.Hourly.Humidity,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.HourlySeries{}, fmt.Errorf("%w: circuit breaker open: %v", weather.ErrFetchFailed, err)
		}
		return weather.HourlySeries{}, err
	}

	series, ok := result.(weather.HourlySeries)
	if !ok {
		return weather.HourlySeries{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return series, nil
}
