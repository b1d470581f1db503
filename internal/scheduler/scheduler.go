// Package scheduler drives the periodic weather refresh for all configured
// cities.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/dglent/meteo-go/internal/city"
	"github.com/dglent/meteo-go/internal/conf"
)

// Requester starts a fetch for one city. It reports false when the request
// was skipped because a fetch for that city is still in flight.
type Requester interface {
	Request(city conf.CityEntry) bool
}

// Scheduler fires a refresh of every configured city on the poll interval and
// on manual triggers. The interval is re-read from the live settings before
// each tick, so a changed interval takes effect on the next tick without a
// restart.
type Scheduler struct {
	store    *city.Store
	fetcher  Requester
	settings *conf.Settings
	logger   *slog.Logger

	manual chan struct{}

	// OnEmpty is invoked instead of fetching when the city list is empty, so
	// the presenter can show the no-city state. May be nil.
	OnEmpty func()

	// intervalFn returns the delay until the next scheduled tick. Overridden
	// in tests.
	intervalFn func() time.Duration
}

// New creates a scheduler over the given store and fetcher.
func New(settings *conf.Settings, store *city.Store, fetcher Requester, logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		store:    store,
		fetcher:  fetcher,
		settings: settings,
		logger:   logger,
		manual:   make(chan struct{}, 1),
	}
	// The config watcher rewrites the interval at runtime, so it is read
	// through the locked accessor before every tick.
	s.intervalFn = func() time.Duration {
		return time.Duration(settings.GetPollInterval()) * time.Minute
	}
	return s
}

// Refresh requests an immediate tick, as triggered by the tray menu. A
// pending manual trigger is coalesced.
func (s *Scheduler) Refresh() {
	select {
	case s.manual <- struct{}{}:
	default:
	}
}

// Run executes the scheduling loop until stopChan is closed. The first tick
// fires immediately.
func (s *Scheduler) Run(stopChan <-chan struct{}) {
	s.logger.Info("Starting weather refresh scheduler",
		"provider", s.settings.Weather.Provider,
		"interval_minutes", s.settings.GetPollInterval(),
	)

	s.tick()

	timer := time.NewTimer(s.intervalFn())
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			s.tick()
		case <-s.manual:
			s.logger.Info("Manual refresh requested")
			s.tick()
			// Manual refresh restarts the countdown to the next scheduled tick
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-stopChan:
			s.logger.Info("Stopping weather refresh scheduler")
			return
		}
		timer.Reset(s.intervalFn())
	}
}

// tick requests a fetch for every configured city. An empty list is a no-op
// surfaced to the presenter, not an error.
func (s *Scheduler) tick() {
	cities := s.store.Cities()
	if len(cities) == 0 {
		s.logger.Debug("No cities configured, skipping refresh")
		if s.OnEmpty != nil {
			s.OnEmpty()
		}
		return
	}

	for _, c := range cities {
		if !s.fetcher.Request(c) {
			s.logger.Debug("Fetch already in flight", "city", c.Name, "id", c.ID)
		}
	}
}
