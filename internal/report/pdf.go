// Package report renders sample sequences into export artifacts. Renderers
// are pure: all data arrives through arguments and nothing here touches the
// store, so reports are testable with fixture data alone.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"weather-report-service/internal/weather"
)

const dateFormat = "2006-01-02 15:04"

// BuildReport assembles the paginated PDF report: title, metadata block, and
// the embedded time-series chart. coord carries the location filter when both
// coordinates were given; nil means the data spans multiple locations.
// An empty input yields weather.ErrNoData before any rendering starts.
func BuildReport(samples []weather.Sample, coord *weather.Coordinate) ([]byte, error) {
	if len(samples) == 0 {
		return nil, weather.ErrNoData
	}

	chartPNG, err := renderChart(samples)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Weather Data Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Time-Series Analysis of Temperature and Humidity", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	location := "Multiple locations"
	if coord != nil {
		location = coord.String()
	}
	first := samples[0].Timestamp.UTC()
	last := samples[len(samples)-1].Timestamp.UTC()

	metadata := [][2]string{
		{"Location:", location},
		{"Date Range:", first.Format(dateFormat) + " to " + last.Format(dateFormat)},
		{"Data Points:", strconv.Itoa(len(samples))},
		{"Generated:", time.Now().UTC().Format("2006-01-02 15:04:05") + " UTC"},
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range metadata {
		pdf.SetFillColor(229, 229, 229)
		pdf.CellFormat(40, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Temperature and Humidity Chart", "", 1, "L", false, 0, "")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(chartPNG))
	pdf.ImageOptions("chart", 15, pdf.GetY()+2, 180, 0, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	return buf.Bytes(), nil
}
