package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"weather-report-service/internal/weather"
)

// renderChart draws the two series over a shared time axis as a PNG.
// Temperature uses the primary Y axis and humidity the secondary one, so the
// differing units never share a misleading scale.
func renderChart(samples []weather.Sample) ([]byte, error) {
	// A line needs two points; fail with a clear message instead of
	// surfacing the renderer's internal one.
	if len(samples) < 2 {
		return nil, errors.New("cannot chart fewer than two samples")
	}

	times := make([]time.Time, len(samples))
	temps := make([]float64, len(samples))
	hums := make([]float64, len(samples))
	for i, smp := range samples {
		times[i] = smp.Timestamp
		temps[i] = smp.Temperature
		hums[i] = smp.Humidity
	}

	graph := chart.Chart{
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04"),
		},
		YAxis: chart.YAxis{
			Name: "Temperature (°C)",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Relative Humidity (%)",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Temperature (°C)",
				XValues: times,
				YValues: temps,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Relative Humidity (%)",
				YAxis:   chart.YAxisSecondary,
				XValues: times,
				YValues: hums,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
