// Package config loads the service configuration from the environment.
//
// Values are resolved as: OS environment, then a .env file in the working
// directory, then the struct defaults below. The result is validated once at
// startup; an invalid value stops the process.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // LOCAL_TIMEZONE must resolve in minimal images

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

// Config is the top-level configuration.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"dev" validate:"oneof=dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	// Timezone is the zone whose midnight prunes the MET.no history and whose
	// calendar days are listed in available_days.
	Timezone string `envconfig:"LOCAL_TIMEZONE" default:"Europe/Paris" validate:"required,timezone"`

	Server   ServerConfig
	Cache    CacheConfig
	Provider ProviderConfig
	Forecast ForecastConfig
	Warmer   WarmerConfig

	// Location is Timezone resolved by Load.
	Location *time.Location `ignored:"true"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Backend string        `envconfig:"CACHE_BACKEND" default:"file" validate:"oneof=file memory"`
	Dir     string        `envconfig:"CACHE_DIR" default:"cache" validate:"required_if=Backend file"`
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"15m" validate:"gt=0"`
	// MinSize is the size in bytes a cached document must exceed to be served.
	MinSize    int64 `envconfig:"CACHE_MIN_SIZE" default:"51200" validate:"gte=0"`
	MaxEntries int   `envconfig:"CACHE_MAX_ENTRIES" default:"1000" validate:"gte=0"`
	Coalesce   bool  `envconfig:"CACHE_COALESCE" default:"false"`
}

// ProviderConfig holds upstream endpoints and HTTP behaviour.
type ProviderConfig struct {
	OpenMeteoURL string        `envconfig:"OPENMETEO_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	MetNoURL     string        `envconfig:"METNO_URL" default:"https://api.met.no/weatherapi/locationforecast/2.0/" validate:"required,url"`
	UserAgent    string        `envconfig:"PROVIDER_USER_AGENT" default:"meteo-fusion/1.0 github.com/i474232898/meteo-fusion" validate:"required"`
	Timeout      time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s" validate:"gt=0"`
	MaxRetries   int           `envconfig:"PROVIDER_MAX_RETRIES" default:"0" validate:"gte=0,lte=5"`
	FetchGap     time.Duration `envconfig:"PROVIDER_FETCH_GAP" default:"100ms" validate:"gte=0"`
}

// ForecastConfig sets the Open-Meteo request window around today (UTC).
type ForecastConfig struct {
	PastDays int `envconfig:"FORECAST_PAST_DAYS" default:"1" validate:"gte=0,lte=92"`
	Days     int `envconfig:"FORECAST_DAYS" default:"7" validate:"gte=1,lte=16"`
}

// WarmerConfig lists points whose cache is refreshed in the background.
type WarmerConfig struct {
	Points   Points        `envconfig:"WARM_POINTS"`
	Interval time.Duration `envconfig:"WARM_INTERVAL" default:"14m" validate:"gte=1m"`
}

// Points is a list of locations written as "lat,lon;lat,lon".
type Points []weather.Location

// Decode implements envconfig.Decoder.
func (p *Points) Decode(value string) error {
	var out Points
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		latStr, lonStr, ok := strings.Cut(part, ",")
		if !ok {
			return fmt.Errorf("point %q: want lat,lon", part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil || lat < -90 || lat > 90 {
			return fmt.Errorf("point %q: invalid latitude", part)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil || lon < -180 || lon > 180 {
			return fmt.Errorf("point %q: invalid longitude", part)
		}
		out = append(out, weather.Location{Lat: lat, Lon: lon})
	}
	*p = out
	return nil
}

// Load reads, validates and resolves the configuration.
func Load() (*Config, error) {
	// A missing .env file is not an error; existing variables are not overridden.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("LOCAL_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return &cfg, nil
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
