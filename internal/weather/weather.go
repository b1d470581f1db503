package weather

import (
	"io"
	"log/slog"
	"time"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/errors"
	"github.com/dglent/meteo-go/internal/logging"
)

// Package-level logger for the weather service
var (
	weatherLogger   *slog.Logger
	weatherLevelVar = new(slog.LevelVar) // Dynamic level control
)

func init() {
	var err error
	weatherLevelVar.Set(slog.LevelInfo)

	weatherLogger, _, err = logging.NewFileLogger("logs/weather.log", "weather", weatherLevelVar, nil)
	if err != nil {
		// Fall back to a disabled logger that still respects the level var
		logging.Error("Failed to initialize weather file logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: weatherLevelVar})
		weatherLogger = slog.New(fbHandler).With("service", "weather")
	}
}

// SetDebug raises or lowers the weather log level at runtime.
func SetDebug(enabled bool) {
	if enabled {
		weatherLevelVar.Set(slog.LevelDebug)
	} else {
		weatherLevelVar.Set(slog.LevelInfo)
	}
}

// Provider represents a weather data provider interface
type Provider interface {
	FetchWeather(settings *conf.Settings, city conf.CityEntry) (*WeatherData, error)
}

// WeatherData represents the common structure for weather data across providers
type WeatherData struct {
	Time          time.Time
	CityID        int
	Location      Location
	Temperature   Temperature
	Wind          Wind
	Precipitation Precipitation
	Clouds        int
	Visibility    int
	Pressure      int
	Humidity      int
	ConditionID   int
	Description   string
	Icon          string
	DayIcon       bool // true when the provider reported a daytime icon variant
	Sunrise       time.Time
	Sunset        time.Time
	UVIndex       float64
	HasUV         bool
}

type Location struct {
	Latitude  float64
	Longitude float64
	Country   string
	City      string
}

type Temperature struct {
	Current   float64
	FeelsLike float64
	Min       float64
	Max       float64
}

type Wind struct {
	Speed float64 // meters per second as delivered for metric units
	Deg   int
	Gust  float64
}

type Precipitation struct {
	Amount float64
	Type   string // rain, snow, etc.
}

// NewProvider selects the weather provider based on configuration.
func NewProvider(settings *conf.Settings) (Provider, error) {
	switch settings.Weather.Provider {
	case "openweather":
		return NewOpenWeatherProvider(), nil
	default:
		return nil, errors.Newf("invalid weather provider: %s", settings.Weather.Provider).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Weather.Provider).
			Build()
	}
}
