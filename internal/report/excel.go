package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"weather-report-service/internal/weather"
)

const sheetName = "Weather Data"

// timestampFormat is used for every timestamp cell so exports parse back
// losslessly.
const timestampFormat = "2006-01-02T15:04:05Z07:00"

// BuildWorkbook renders the samples into a single-sheet xlsx workbook, one row
// per sample in input order. When includeCoords is set (coordinate-agnostic
// exports), latitude and longitude columns disambiguate rows from different
// locations. An empty input yields weather.ErrNoData and no bytes.
func BuildWorkbook(samples []weather.Sample, includeCoords bool) ([]byte, error) {
	if len(samples) == 0 {
		return nil, weather.ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := []interface{}{"timestamp", "temperature_2m", "relative_humidity_2m"}
	if includeCoords {
		header = append(header, "latitude", "longitude")
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, smp := range samples {
		row := []interface{}{
			smp.Timestamp.UTC().Format(timestampFormat),
			smp.Temperature,
			smp.Humidity,
		}
		if includeCoords {
			row = append(row, smp.Latitude, smp.Longitude)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
