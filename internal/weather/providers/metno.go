package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

// DefaultMetNoURL is the MET.no Locationforecast "complete" endpoint.
const DefaultMetNoURL = "https://api.met.no/weatherapi/locationforecast/2.0/"

// MetNoProvider implements the weather.Provider interface for MET.no.
type MetNoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// MetNoOptions configures the MET.no provider. UserAgent must identify the
// application and a contact; MET.no answers 403 otherwise.
type MetNoOptions struct {
	BaseURL    string
	UserAgent  string
	MaxRetries int
}

func NewMetNoProvider(client *http.Client, opts MetNoOptions) *MetNoProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultMetNoURL
	}
	return &MetNoProvider{
		name:    "metno",
		baseURL: opts.BaseURL,
		httpCfg: HTTPClientConfig{
			Client:    client,
			UserAgent: opts.UserAgent,
			Backoff:   DefaultBackoff(opts.MaxRetries),
		},
		circuit: newCircuitBreaker("metno"),
	}
}

func (p *MetNoProvider) Name() string {
	return p.name
}

// Fetch returns the raw Locationforecast document for loc.
func (p *MetNoProvider) Fetch(ctx context.Context, loc weather.Location) ([]byte, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	u := p.baseURL + "?" + values.Encode()

	body, err := fetchBody(ctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("metno: %w", err)
	}
	return body, nil
}
