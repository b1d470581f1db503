// Package observability exposes the optional Prometheus telemetry endpoint.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/logging"
	"github.com/dglent/meteo-go/internal/observability/metrics"
)

// Telemetry owns the metrics registry and the optional HTTP endpoint.
type Telemetry struct {
	registry *prometheus.Registry
	Weather  *metrics.WeatherMetrics
	server   *http.Server
}

// New creates the registry and the weather collectors.
func New() (*Telemetry, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	weatherMetrics, err := metrics.NewWeatherMetrics(registry)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		registry: registry,
		Weather:  weatherMetrics,
	}, nil
}

// Start serves /metrics on the configured listen address when telemetry is
// enabled. It returns immediately; serve errors are logged, not fatal.
func (t *Telemetry) Start(settings *conf.Settings) {
	if !settings.Telemetry.Enabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{}))

	t.server = &http.Server{
		Addr:         settings.Telemetry.Listen,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Info("Starting telemetry endpoint", "listen", settings.Telemetry.Listen)
	go func() {
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Telemetry endpoint failed", "error", err)
		}
	}()
}

// Stop closes the telemetry endpoint if it was started.
func (t *Telemetry) Stop() {
	if t.server != nil {
		_ = t.server.Close()
	}
}
