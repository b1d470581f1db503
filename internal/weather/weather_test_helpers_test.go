package weather

import (
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/dglent/meteo-go/internal/conf"
)

// createTestSettings creates test settings with configurable provider.
func createTestSettings(t *testing.T, provider string, opts ...func(*conf.Settings)) *conf.Settings {
	t.Helper()

	settings := &conf.Settings{
		Weather: conf.WeatherSettings{
			Provider:     provider,
			PollInterval: 30,
			Units:        "metric",
			WindUnit:     "mps",
			Language:     "en",
			OpenWeather: conf.OpenWeatherSettings{
				APIKey:       "test-api-key",
				Endpoint:     "https://api.openweathermap.org/data/2.5/weather",
				FindEndpoint: "https://api.openweathermap.org/data/2.5/find",
				UVEndpoint:   "https://api.openweathermap.org/data/2.5/uvi",
				IconEndpoint: "https://openweathermap.org/img/w",
			},
		},
	}

	for _, opt := range opts {
		opt(settings)
	}

	return settings
}

// createTestCity returns a city entry pointing at Helsinki.
func createTestCity(t *testing.T) conf.CityEntry {
	t.Helper()

	return conf.CityEntry{
		ID:        658225,
		Name:      "Helsinki",
		Country:   "FI",
		Latitude:  60.1699,
		Longitude: 24.9384,
	}
}

// setupHTTPMock activates httpmock and returns a cleanup function.
func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

// openWeatherSuccessResponse returns a valid OpenWeather API response JSON string.
func openWeatherSuccessResponse() string {
	return `{
  "coord": { "lon": 24.9384, "lat": 60.1699 },
  "weather": [{ "id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d" }],
  "base": "stations",
  "main": { "temp": 14.55, "feels_like": 13.88, "temp_min": 13.33, "temp_max": 15.65, "pressure": 1014, "humidity": 72 },
  "visibility": 10000,
  "wind": { "speed": 4.12, "deg": 240, "gust": 7.5 },
  "clouds": { "all": 75 },
  "dt": 1736769600,
  "sys": { "type": 2, "id": 2006068, "country": "FI", "sunrise": 1736748345, "sunset": 1736779789 },
  "timezone": 7200,
  "id": 658225,
  "name": "Helsinki",
  "cod": 200
}`
}

// openWeatherUVResponse returns a valid UV index response JSON string.
func openWeatherUVSuccessResponse() string {
	return `{ "lat": 60.1699, "lon": 24.9384, "date_iso": "2026-01-13T12:00:00Z", "date": 1736769600, "value": 2.45 }`
}

// registerOpenWeatherResponder registers a mock responder for the current
// weather endpoint.
func registerOpenWeatherResponder(t *testing.T, statusCode int, body string) {
	t.Helper()

	httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org/data/2\.5/weather`,
		httpmock.NewStringResponder(statusCode, body))
}

// registerUVResponder registers a mock responder for the UV index endpoint.
func registerUVResponder(t *testing.T, statusCode int, body string) {
	t.Helper()

	httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org/data/2\.5/uvi`,
		httpmock.NewStringResponder(statusCode, body))
}

// assertWeatherDataBasics validates basic WeatherData fields.
func assertWeatherDataBasics(t *testing.T, data *WeatherData) {
	t.Helper()

	require.NotNil(t, data, "WeatherData should not be nil")
	require.False(t, data.Time.IsZero(), "Time should not be zero")
	require.NotZero(t, data.CityID, "CityID should be set")
}

// waitForResult reads one result from the fetcher with a timeout so a broken
// fetcher cannot hang the test.
func waitForResult(t *testing.T, f *Fetcher) Result {
	t.Helper()

	select {
	case res := <-f.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fetch result")
		return Result{}
	}
}
