package weather

import (
	"sync"
	"time"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/observability/metrics"
)

// Result is the outcome of one fetch cycle for one city, delivered on the
// fetcher's result channel.
type Result struct {
	City conf.CityEntry
	Data *WeatherData // nil on failure
	Err  error        // nil on success
}

// Fetcher coordinates per-city weather fetches. At most one fetch per city is
// in flight at a time; a request for a city already in flight is skipped, not
// queued. Results are delivered on a single channel so the consumer can apply
// them from one goroutine.
type Fetcher struct {
	provider Provider
	settings *conf.Settings
	metrics  *metrics.WeatherMetrics

	results chan Result

	mu       sync.Mutex
	inFlight map[int]bool
}

// NewFetcher creates a fetcher for the given provider. weatherMetrics may be
// nil when telemetry is disabled.
func NewFetcher(settings *conf.Settings, provider Provider, weatherMetrics *metrics.WeatherMetrics) *Fetcher {
	return &Fetcher{
		provider: provider,
		settings: settings,
		metrics:  weatherMetrics,
		results:  make(chan Result, 16),
		inFlight: make(map[int]bool),
	}
}

// Results returns the channel fetch outcomes are delivered on.
func (f *Fetcher) Results() <-chan Result {
	return f.results
}

// Request starts a fetch for the given city unless one is already in flight.
// It returns false when the request was skipped.
func (f *Fetcher) Request(city conf.CityEntry) bool {
	f.mu.Lock()
	if f.inFlight[city.ID] {
		f.mu.Unlock()
		weatherLogger.Debug("Skipping fetch, previous request still in flight",
			"city", city.Name, "id", city.ID)
		return false
	}
	f.inFlight[city.ID] = true
	f.mu.Unlock()

	go f.fetch(city)
	return true
}

// fetch runs on its own goroutine, performs the network calls and publishes
// the result. The in-flight mark is cleared only after the result has been
// handed to the consumer.
func (f *Fetcher) fetch(city conf.CityEntry) {
	defer func() {
		f.mu.Lock()
		delete(f.inFlight, city.ID)
		f.mu.Unlock()
	}()

	fetchStart := time.Now()
	data, err := f.provider.FetchWeather(f.settings, city)

	if f.metrics != nil {
		f.metrics.RecordFetchDuration(f.settings.Weather.Provider, time.Since(fetchStart).Seconds())
		if err != nil {
			f.metrics.RecordFetch(f.settings.Weather.Provider, "error")
		} else {
			f.metrics.RecordFetch(f.settings.Weather.Provider, "success")
		}
	}

	if err != nil {
		weatherLogger.Error("Failed to fetch weather data from provider",
			"provider", f.settings.Weather.Provider,
			"city", city.Name,
			"id", city.ID,
			"error", err,
		)
		f.results <- Result{City: city, Err: err}
		return
	}

	// The UV index comes from a separate endpoint; a failure there leaves the
	// field unset without failing the snapshot.
	if p, ok := f.provider.(*OpenWeatherProvider); ok {
		if uv, uvErr := p.FetchUVIndex(f.settings, data.Location.Latitude, data.Location.Longitude); uvErr == nil {
			data.UVIndex = uv
			data.HasUV = true
		} else {
			weatherLogger.Debug("UV index fetch failed", "city", city.Name, "error", uvErr)
		}
	}

	weatherLogger.Info("Successfully fetched weather data",
		"provider", f.settings.Weather.Provider,
		"city", data.Location.City,
		"id", data.CityID,
		"temp", data.Temperature.Current,
		"wind_mps", data.Wind.Speed,
		"humidity_pct", data.Humidity,
		"pressure_hpa", data.Pressure,
		"description", data.Description,
	)

	if f.metrics != nil {
		f.metrics.UpdateConditionGauges(
			data.Location.City,
			toCelsius(data.Temperature.Current, f.settings.Weather.Units),
			float64(data.Humidity),
			float64(data.Pressure),
			data.Wind.Speed,
		)
	}

	f.results <- Result{City: city, Data: data}
}
