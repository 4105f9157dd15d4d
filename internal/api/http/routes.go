package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-report-service/internal/report"
	"weather-report-service/internal/weather"
)

var validate = validator.New()

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather-report", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		stored, err := service.Ingest(c.UserContext(), coord)
		if err != nil {
			if errors.Is(err, weather.ErrFetchFailed) {
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data from upstream")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store weather data")
		}

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Successfully fetched and stored %d weather records", stored),
			"stored":  stored,
		})
	})

	v1.Get("/export/excel", func(c *fiber.Ctx) error {
		coord, err := parseFilterQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		lat, lon := filterValues(coord)
		samples, err := service.SelectWindow(c.UserContext(), lat, lon)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}

		data, err := report.BuildWorkbook(samples, coord == nil)
		if err != nil {
			return exportError(err)
		}

		c.Set(fiber.HeaderContentType, mimeXLSX)
		c.Set(fiber.HeaderContentDisposition,
			`attachment; filename=`+exportFilename("weather_data", ".xlsx", coord))
		return c.Send(data)
	})

	v1.Get("/export/pdf", func(c *fiber.Ctx) error {
		coord, err := parseFilterQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		lat, lon := filterValues(coord)
		samples, err := service.SelectWindow(c.UserContext(), lat, lon)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}

		data, err := report.BuildReport(samples, coord)
		if err != nil {
			return exportError(err)
		}

		c.Set(fiber.HeaderContentType, mimePDF)
		c.Set(fiber.HeaderContentDisposition,
			`attachment; filename=`+exportFilename("weather_report", ".pdf", coord))
		return c.Send(data)
	})
}

func exportError(err error) error {
	if errors.Is(err, weather.ErrNoData) {
		return fiber.NewError(fiber.StatusNotFound, "no weather data for the requested window")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to generate export")
}

// coordinateQuery holds a parsed, range-checked coordinate pair.
type coordinateQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// parseCoordinateQuery reads the mandatory lat/lon pair used by ingestion.
func parseCoordinateQuery(c *fiber.Ctx) (weather.Coordinate, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return weather.Coordinate{}, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("invalid lat: %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("invalid lon: %q", lonStr)
	}

	q := coordinateQuery{Lat: lat, Lon: lon}
	if err := validate.Struct(q); err != nil {
		return weather.Coordinate{}, err
	}

	return weather.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// parseFilterQuery reads the optional lat/lon filter used by exports. An
// absent or one-sided pair cannot identify a location and means no filter;
// a pair that is present but malformed or out of range is an error, so a
// typo never silently exports every location's data.
func parseFilterQuery(c *fiber.Ctx) (*weather.Coordinate, error) {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return nil, nil
	}
	coord, err := parseCoordinateQuery(c)
	if err != nil {
		return nil, err
	}
	return &coord, nil
}

func filterValues(coord *weather.Coordinate) (lat, lon *float64) {
	if coord == nil {
		return nil, nil
	}
	return &coord.Latitude, &coord.Longitude
}

// exportFilename appends a coordinate suffix only when the export was
// filtered to one location.
func exportFilename(base, ext string, coord *weather.Coordinate) string {
	if coord == nil {
		return base + ext
	}
	return base +
		"_lat_" + strconv.FormatFloat(coord.Latitude, 'f', -1, 64) +
		"_lon_" + strconv.FormatFloat(coord.Longitude, 'f', -1, 64) +
		ext
}
