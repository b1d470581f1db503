// Package app wires the city store, fetcher, scheduler and tray presenter
// into the running application.
package app

import (
	"log/slog"
	"sync"

	"github.com/dglent/meteo-go/internal/city"
	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/logging"
	"github.com/dglent/meteo-go/internal/observability"
	"github.com/dglent/meteo-go/internal/scheduler"
	"github.com/dglent/meteo-go/internal/suncalc"
	"github.com/dglent/meteo-go/internal/tray"
	"github.com/dglent/meteo-go/internal/weather"
)

// view is the tray surface the event loop re-renders. Satisfied by
// *tray.Presenter.
type view interface {
	Update()
}

// eventLoop serializes every mutation of the city store and every tray
// re-render onto one goroutine. Fetch results, menu city selections and
// render requests from the config watcher all arrive over channels.
type eventLoop struct {
	store   *city.Store
	results <-chan weather.Result
	selects chan int
	renders chan struct{}
	view    view

	persist func()
	refresh func()
	logger  *slog.Logger

	sunCalcs map[int]*suncalc.SunCalc
}

// requestRender asks the loop for a re-render. Pending requests coalesce.
func (l *eventLoop) requestRender() {
	select {
	case l.renders <- struct{}{}:
	default:
	}
}

// selectCity hands a menu city selection to the loop.
func (l *eventLoop) selectCity(id int) {
	select {
	case l.selects <- id:
	default:
		l.logger.Warn("City selection dropped, event loop busy", "id", id)
	}
}

func (l *eventLoop) run(stopChan <-chan struct{}) {
	for {
		select {
		case res := <-l.results:
			if res.Err != nil {
				l.store.MarkFailed(res.City.ID, res.Err)
			} else {
				l.fillSunTimes(res.City, res.Data)
				l.store.ApplySnapshot(res.City.ID, res.Data)
			}
			l.view.Update()
		case id := <-l.selects:
			if err := l.store.SetPrimary(id); err != nil {
				l.logger.Warn("Cannot switch city", "id", id, "error", err)
				continue
			}
			l.persist()
			l.view.Update()
			l.refresh()
		case <-l.renders:
			l.view.Update()
		case <-stopChan:
			return
		}
	}
}

// fillSunTimes computes sunrise and sunset locally when the provider response
// left them unset, and fixes the icon variant against the computed sun times.
func (l *eventLoop) fillSunTimes(cityEntry conf.CityEntry, data *weather.WeatherData) {
	if !data.Sunrise.IsZero() && !data.Sunset.IsZero() {
		return
	}

	sc, ok := l.sunCalcs[cityEntry.ID]
	if !ok {
		sc = suncalc.NewSunCalc(cityEntry.Latitude, cityEntry.Longitude)
		l.sunCalcs[cityEntry.ID] = sc
	}

	times, err := sc.GetSunEventTimes(data.Time)
	if err != nil {
		l.logger.Debug("Sun time calculation failed", "city", cityEntry.Name, "error", err)
		return
	}
	data.Sunrise = times.Sunrise
	data.Sunset = times.Sunset
	data.DayIcon = sc.IsDaytime(data.Time)
}

// Run starts the tray application and blocks until the user quits. It must
// be called from the main goroutine (the tray loop requires it on macOS).
func Run(settings *conf.Settings) error {
	telemetry, err := observability.New()
	if err != nil {
		return err
	}

	provider, err := weather.NewProvider(settings)
	if err != nil {
		return err
	}
	weather.SetDebug(settings.Weather.Debug)

	store := city.NewStore(settings.Cities)
	fetcher := weather.NewFetcher(settings, provider, telemetry.Weather)
	sched := scheduler.New(settings, store, fetcher, slog.Default())

	stopChan := make(chan struct{})
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() { close(stopChan) })
	}

	persistCities := func() {
		settings.SetCities(store.Settings())
		// Persistence failures after startup are warnings, never fatal
		if err := conf.SaveSettings(); err != nil {
			logging.Warn("Failed to persist city list", "error", err)
		}
	}

	loop := &eventLoop{
		store:    store,
		results:  fetcher.Results(),
		selects:  make(chan int, 4),
		renders:  make(chan struct{}, 1),
		persist:  persistCities,
		refresh:  sched.Refresh,
		logger:   slog.Default(),
		sunCalcs: make(map[int]*suncalc.SunCalc),
	}

	actions := tray.Actions{
		Refresh:    sched.Refresh,
		SelectCity: loop.selectCity,
		Quit:       stop,
	}

	presenter := tray.NewPresenter(settings, store, tray.NewIconCache(settings), actions, logging.HumanReadable())
	loop.view = presenter
	sched.OnEmpty = presenter.ShowEmpty

	conf.WatchConfig(settings, func(change conf.ChangeSummary) {
		if change.RestartRequired {
			logging.Info("Language change takes effect after restart")
		}
		if change.IntervalChanged {
			logging.Info("Update interval changed, applies on next tick",
				"interval_minutes", settings.GetPollInterval())
		}
		if change.DisplayChanged {
			loop.requestRender()
		}
	})

	presenter.Run(func() {
		telemetry.Start(settings)
		go loop.run(stopChan)
		go sched.Run(stopChan)
	})

	// Tray loop has exited; in-flight fetches are abandoned
	stop()
	telemetry.Stop()
	return nil
}
