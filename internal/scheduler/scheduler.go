package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/meteo-fusion/internal/weather"
)

// Refresher rebuilds the cached forecast of a location.
type Refresher interface {
	Refresh(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically refreshes the cache for configured locations so
// that their first request after expiry is served from cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	// ctx is cancelled by Stop to abort an in-flight warm pass.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler. timeout bounds one location's refresh.
func New(locations []weather.Location, interval, timeout time.Duration, service Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		interval:  interval,
		timeout:   timeout,
		logger:    slog.Default().With("component", "cache-warmer"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 14
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce, s.ctx)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every location in turn. Locations are processed one at a
// time to keep the upstream request rate at one call in flight.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Info("warming cache", "locations", len(s.locations))

	var failed int
	for _, loc := range s.locations {
		if ctx.Err() != nil {
			return
		}
		lctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.service.Refresh(lctx, loc)
		cancel()
		if err != nil {
			failed++
			s.logger.Warn("refresh failed", "key", loc.Key(), "error", err)
		}
	}
	s.logger.Info("cache warm complete", "locations", len(s.locations), "failed", failed)
}

// Stop cancels a running warm pass and any future jobs.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
