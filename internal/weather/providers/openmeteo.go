package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

// DefaultOpenMeteoURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It requests every fused model side by side for a window starting
// PastDays before today (UTC) and ending Days after it.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	pastDays int
	days     int
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	now      func() time.Time
}

// OpenMeteoOptions configures the Open-Meteo provider.
type OpenMeteoOptions struct {
	BaseURL    string
	UserAgent  string
	MaxRetries int
	PastDays   int
	Days       int
}

func NewOpenMeteoProvider(client *http.Client, opts OpenMeteoOptions) *OpenMeteoProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  opts.BaseURL,
		pastDays: opts.PastDays,
		days:     opts.Days,
		httpCfg: HTTPClientConfig{
			Client:    client,
			UserAgent: opts.UserAgent,
			Backoff:   DefaultBackoff(opts.MaxRetries),
		},
		circuit: newCircuitBreaker("openmeteo"),
		now:     time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch returns the raw Open-Meteo document for loc.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) ([]byte, error) {
	u := p.baseURL + "?" + p.query(loc).Encode()

	body, err := fetchBody(ctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("openmeteo: %w", err)
	}
	return body, nil
}

func (p *OpenMeteoProvider) query(loc weather.Location) url.Values {
	today := p.now().UTC()

	hourly := make([]string, 0, len(weather.HourlyVariables))
	for _, v := range weather.HourlyVariables {
		hourly = append(hourly, string(v))
	}
	models := make([]string, 0, len(weather.RequestedModels))
	for _, m := range weather.RequestedModels {
		models = append(models, string(m))
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("hourly", strings.Join(hourly, ","))
	values.Set("daily", strings.Join(weather.DailyVariables, ","))
	values.Set("models", strings.Join(models, ","))
	values.Set("timezone", "GMT")
	values.Set("start_date", today.AddDate(0, 0, -p.pastDays).Format(time.DateOnly))
	values.Set("end_date", today.AddDate(0, 0, p.days).Format(time.DateOnly))
	values.Set("cell_selection", "land")
	return values
}
