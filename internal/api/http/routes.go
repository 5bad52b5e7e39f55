package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

var validate = validator.New()

// Forecaster produces the fused forecast document for a location.
type Forecaster interface {
	Forecast(ctx context.Context, loc weather.Location, refresh bool) ([]byte, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. The forecast is
// served both at the root (the path existing clients call) and under /api/v1.
func RegisterRoutes(app *fiber.App, service Forecaster) {
	handler := forecastHandler(service)

	app.Get("/", handler)

	v1 := app.Group("/api/v1")
	v1.Get("/forecast", handler)
}

func forecastHandler(service Forecaster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parseForecastQuery(c)
		if err != nil {
			return weather.NewAppError(weather.ErrCodeMissingCoordinates, "missing or invalid coordinates", err)
		}

		doc, err := service.Forecast(c.UserContext(), q.toLocation(), q.Refresh)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(doc)
	}
}

// forecastQuery holds the query parameters of the forecast endpoint.
type forecastQuery struct {
	Lat     *float64 `validate:"required,latitude"`
	Lon     *float64 `validate:"required,longitude"`
	Refresh bool
}

func (q forecastQuery) toLocation() weather.Location {
	return weather.Location{Lat: *q.Lat, Lon: *q.Lon}
}

func parseForecastQuery(c *fiber.Ctx) (forecastQuery, error) {
	var q forecastQuery

	lat, err := parseCoord(c.Query("lat"))
	if err != nil {
		return q, err
	}
	lon, err := parseCoord(c.Query("lon"))
	if err != nil {
		return q, err
	}
	q.Lat, q.Lon = lat, lon
	q.Refresh = c.Query("refresh") == "1"

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// parseCoord returns nil for an absent value.
func parseCoord(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New("coordinate is not a number")
	}
	return &v, nil
}

// ErrorHandler renders errors as {"error": message}, with the status taken
// from the error's code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{"error": "internal server error"}

	var appErr *weather.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.HTTPStatus()
		body = fiber.Map{"error": appErr.Message, "code": appErr.Code}
		if appErr.Provider != "" {
			body["provider"] = appErr.Provider
		}
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		body = fiber.Map{"error": fiberErr.Message}
	}

	return c.Status(code).JSON(body)
}
