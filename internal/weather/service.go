package weather

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/singleflight"
)

// ServiceConfig tunes the request pipeline.
type ServiceConfig struct {
	// CacheTTL is the age below which a cached document is served as-is.
	CacheTTL time.Duration
	// CacheMinSize is the size a cached document must exceed to be served;
	// smaller files are assumed to be truncated or error payloads.
	CacheMinSize int64
	// FetchTimeout bounds each provider call separately.
	FetchTimeout time.Duration
	// FetchGap is a pause between the two provider calls.
	FetchGap time.Duration
	// Location defines "local midnight" for pruning secondary history.
	Location *time.Location
	// Coalesce shares one refresh between concurrent requests for a coordinate.
	Coalesce bool
}

// DefaultServiceConfig mirrors the production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		CacheTTL:     15 * time.Minute,
		CacheMinSize: 50 * 1024,
		FetchTimeout: 30 * time.Second,
		FetchGap:     100 * time.Millisecond,
		Location:     time.Local,
	}
}

// Service runs the fetch → enrich → aggregate → merge → persist pipeline.
type Service struct {
	store     Store
	primary   Provider
	secondary Provider
	cfg       ServiceConfig

	fusion    Profile
	alternate Profile

	now    func() time.Time
	logger *slog.Logger
	group  singleflight.Group
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithProfiles replaces the fusion profiles used for openmeteo_aggregated and
// arome_aggregated.
func WithProfiles(fusion, alternate Profile) Option {
	return func(s *Service) {
		s.fusion = fusion
		s.alternate = alternate
	}
}

// NewService creates a new Service. primary supplies the multi-model hourly
// forecast, secondary the long-range single-model series.
func NewService(store Store, primary, secondary Provider, cfg ServiceConfig, opts ...Option) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := &Service{
		store:     store,
		primary:   primary,
		secondary: secondary,
		cfg:       cfg,
		fusion:    PrimaryFusion(),
		alternate: AromeOnly(),
		now:       time.Now,
		logger:    slog.Default().With("component", "weather-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Forecast returns the response document for loc. A valid cached document is
// served unless refresh is set; otherwise both providers are fetched, the
// result is fused, merged with the cached secondary history and persisted.
func (s *Service) Forecast(ctx context.Context, loc Location, refresh bool) ([]byte, error) {
	key := loc.Key()

	if !refresh {
		if doc, ok := s.cached(key); ok {
			return doc, nil
		}
	}

	if !s.cfg.Coalesce {
		return s.build(ctx, loc)
	}
	// The shared build outlives the caller that started it; each provider
	// call inside it is still bounded by FetchTimeout.
	ch := s.group.DoChan(key, func() (any, error) {
		return s.build(context.WithoutCancel(ctx), loc)
	})
	select {
	case <-ctx.Done():
		return nil, UpstreamFetchError(s.primary.Name(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "refresh shared with concurrent request", "key", key)
		}
		return res.Val.([]byte), nil
	}
}

// Refresh rebuilds and persists the document for loc, ignoring the cache.
func (s *Service) Refresh(ctx context.Context, loc Location) error {
	_, err := s.Forecast(ctx, loc, true)
	return err
}

// cached returns the stored document stamped with cache metadata when it is
// younger than the TTL and larger than the minimum size.
func (s *Service) cached(key string) ([]byte, bool) {
	entry, err := s.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("cache read failed", "key", key, "code", ErrCodeCacheIO, "error", err)
		}
		return nil, false
	}

	age := s.now().Sub(entry.ModTime)
	if age >= s.cfg.CacheTTL || entry.Size() <= s.cfg.CacheMinSize {
		return nil, false
	}
	if !gjson.ValidBytes(entry.Data) {
		s.logger.Warn("cached document is not valid JSON", "key", key)
		return nil, false
	}

	doc, err := sjson.SetBytes(entry.Data, "meta.from_cache", true)
	if err == nil {
		doc, err = sjson.SetBytes(doc, "meta.cache_age", int64(age/time.Second))
	}
	if err != nil {
		s.logger.Warn("stamping cache metadata failed", "key", key, "error", err)
		return nil, false
	}
	return doc, true
}

func (s *Service) build(ctx context.Context, loc Location) ([]byte, error) {
	key := loc.Key()

	// Sequential on purpose: one outbound call at a time per request.
	metnoRaw, err := s.fetch(ctx, s.secondary, loc)
	if err != nil {
		return nil, err
	}
	if err := s.pause(ctx); err != nil {
		return nil, UpstreamFetchError(s.primary.Name(), err)
	}
	openRaw, err := s.fetch(ctx, s.primary, loc)
	if err != nil {
		return nil, err
	}

	var forecast OpenMeteoForecast
	if err := json.Unmarshal(openRaw, &forecast); err != nil {
		return nil, UpstreamParseError(s.primary.Name(), err)
	}

	metno, err := EnrichMetNo(metnoRaw, s.fusion)
	if err != nil {
		return nil, UpstreamParseError(s.secondary.Name(), err)
	}

	now := s.now()
	metno, err = MergeMetNo(s.cachedMetNo(key), metno, LocalMidnight(now, s.cfg.Location))
	if err != nil {
		return nil, NewAppError(ErrCodeInternal, "merging secondary history failed", err)
	}

	resp := Response{
		MetNo:     metno,
		OpenMeteo: openRaw,
		Elevation: forecast.Elevation,
		Meta:      s.meta(now),
	}
	if forecast.Hourly != nil {
		resp.OpenMeteoAggregated = s.aggregate(forecast, s.fusion)
		resp.AromeAggregated = s.aggregate(forecast, s.alternate)
	}

	doc, err := json.Marshal(resp)
	if err != nil {
		return nil, NewAppError(ErrCodeInternal, "encoding response failed", err)
	}

	if err := s.store.Put(key, doc); err != nil {
		s.logger.ErrorContext(ctx, "cache write failed; serving uncached result",
			"key", key, "code", ErrCodeCacheIO, "error", err)
	}

	s.logger.InfoContext(ctx, "forecast built",
		"key", key,
		"hours", forecast.Hourly.Len(),
		"bytes", len(doc),
	)
	return doc, nil
}

func (s *Service) fetch(ctx context.Context, p Provider, loc Location) ([]byte, error) {
	fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	body, err := p.Fetch(fctx, loc)
	if err != nil {
		s.logger.WarnContext(ctx, "provider fetch failed", "provider", p.Name(), "key", loc.Key(), "error", err)
		var appErr *AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, UpstreamFetchError(p.Name(), err)
	}
	if !json.Valid(body) {
		return nil, UpstreamParseError(p.Name(), errors.New("body is not JSON"))
	}

	s.logger.DebugContext(ctx, "provider fetched", "provider", p.Name(), "bytes", len(body), "took", time.Since(start))
	return body, nil
}

func (s *Service) pause(ctx context.Context) error {
	if s.cfg.FetchGap <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.FetchGap)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cachedMetNo returns the secondary document of the previous response for
// key, regardless of its age. Read failures only cost the history.
func (s *Service) cachedMetNo(key string) []byte {
	entry, err := s.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("cache read for merge failed", "key", key, "code", ErrCodeCacheIO, "error", err)
		}
		return nil
	}
	prev := gjson.GetBytes(entry.Data, "metno")
	if !prev.IsObject() {
		return nil
	}
	return []byte(prev.Raw)
}

func (s *Service) aggregate(forecast OpenMeteoForecast, p Profile) *Aggregated {
	hourly := Enrich(forecast.Hourly, forecast.Elevation, p)
	six := AggregateSixHourly(hourly)
	return &Aggregated{
		Hourly:        hourly,
		SixHourly:     six,
		AvailableDays: AvailableDays(six, s.cfg.Location),
	}
}

func (s *Service) meta(now time.Time) Meta {
	th := s.fusion.Thresholds
	return Meta{
		GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		Sources: map[string]SourceInfo{
			"openmeteo": {
				Description: "Open-Meteo best_match (multi-model blend)",
				Priority:    s.fusion.PriorityLabel(),
				Coverage:    "7 days",
			},
			"arome": {
				Description: "Météo-France AROME (French models only)",
				Priority:    s.alternate.PriorityLabel(),
				Coverage:    "~4.5 days (null afterwards)",
			},
			"metno": {
				Description: "MET.no Locationforecast",
				Coverage:    "~10 days",
			},
		},
		SLRMethod:               "Simplified Roebber (base 14, alpine calibration) - factors: temp, humidity, wind",
		SnowDetection:           "temp <= " + fmtC(th.SnowMaxTemp) + " AND dew_point <= " + fmtC(th.SnowMaxDewPoint),
		SnowQuality:             "wet if temp > " + fmtC(th.WetSnowMinTemp) + " AND dew_point > " + fmtC(th.WetSnowMinDewPoint) + ", else dry",
		FreezingLevelCorrection: "corrected=true when API value > elevation AND temp <= 0°C",
		FromCache:               false,
	}
}

func fmtC(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}
