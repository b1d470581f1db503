// Package metrics contains Prometheus collectors for the weather service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WeatherMetrics tracks fetch outcomes and the most recently observed
// conditions per city.
type WeatherMetrics struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	temperature *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	pressure    *prometheus.GaugeVec
	windSpeed   *prometheus.GaugeVec
}

// NewWeatherMetrics creates the weather collectors and registers them on the
// given registerer.
func NewWeatherMetrics(reg prometheus.Registerer) (*WeatherMetrics, error) {
	m := &WeatherMetrics{
		fetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meteo_weather_fetches_total",
			Help: "Total number of weather fetch attempts by provider and result.",
		}, []string{"provider", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meteo_weather_fetch_duration_seconds",
			Help:    "Duration of weather fetches by provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteo_weather_temperature_celsius",
			Help: "Most recently fetched temperature by city, in Celsius.",
		}, []string{"city"}),
		humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteo_weather_humidity_percent",
			Help: "Most recently fetched relative humidity by city.",
		}, []string{"city"}),
		pressure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteo_weather_pressure_hpa",
			Help: "Most recently fetched atmospheric pressure by city.",
		}, []string{"city"}),
		windSpeed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteo_weather_wind_speed_mps",
			Help: "Most recently fetched wind speed by city.",
		}, []string{"city"}),
	}

	collectors := []prometheus.Collector{
		m.fetchesTotal, m.fetchDuration,
		m.temperature, m.humidity, m.pressure, m.windSpeed,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordFetch counts one fetch attempt with its result ("success" or "error").
func (m *WeatherMetrics) RecordFetch(provider, result string) {
	m.fetchesTotal.WithLabelValues(provider, result).Inc()
}

// RecordFetchDuration observes the duration of one fetch in seconds.
func (m *WeatherMetrics) RecordFetchDuration(provider string, seconds float64) {
	m.fetchDuration.WithLabelValues(provider).Observe(seconds)
}

// UpdateConditionGauges sets the current-condition gauges for a city.
func (m *WeatherMetrics) UpdateConditionGauges(city string, temperature, humidity, pressure, windSpeed float64) {
	m.temperature.WithLabelValues(city).Set(temperature)
	m.humidity.WithLabelValues(city).Set(humidity)
	m.pressure.WithLabelValues(city).Set(pressure)
	m.windSpeed.WithLabelValues(city).Set(windSpeed)
}
