package weather

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dglent/meteo-go/internal/conf"
)

func TestOpenWeatherProvider_FetchWeather_Success(t *testing.T) {
	setupHTTPMock(t)

	registerOpenWeatherResponder(t, http.StatusOK, openWeatherSuccessResponse())

	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather")

	data, err := provider.FetchWeather(settings, createTestCity(t))

	require.NoError(t, err)
	assertWeatherDataBasics(t, data)

	// Verify parsed values match expected
	assert.Equal(t, 658225, data.CityID)
	assert.InDelta(t, 14.55, data.Temperature.Current, 0.01)
	assert.InDelta(t, 13.88, data.Temperature.FeelsLike, 0.01)
	assert.InDelta(t, 13.33, data.Temperature.Min, 0.01)
	assert.InDelta(t, 15.65, data.Temperature.Max, 0.01)
	assert.InDelta(t, 4.12, data.Wind.Speed, 0.01)
	assert.Equal(t, 240, data.Wind.Deg)
	assert.InDelta(t, 7.5, data.Wind.Gust, 0.01)
	assert.Equal(t, 1014, data.Pressure)
	assert.Equal(t, 72, data.Humidity)
	assert.Equal(t, 75, data.Clouds)
	assert.Equal(t, 10000, data.Visibility)

	// Verify location from API response
	assert.InDelta(t, 60.1699, data.Location.Latitude, 0.001)
	assert.InDelta(t, 24.9384, data.Location.Longitude, 0.001)
	assert.Equal(t, "FI", data.Location.Country)
	assert.Equal(t, "Helsinki", data.Location.City)

	// Verify description, icon and sun times
	assert.Equal(t, "broken clouds", data.Description)
	assert.Equal(t, string(IconCloudy), data.Icon) // 04d maps to IconCloudy
	assert.True(t, data.DayIcon)
	assert.Equal(t, int64(1736748345), data.Sunrise.Unix())
	assert.Equal(t, int64(1736779789), data.Sunset.Unix())
}

func TestOpenWeatherProvider_FetchWeather_NoAPIKey(t *testing.T) {
	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather", func(s *conf.Settings) {
		s.Weather.OpenWeather.APIKey = ""
	})

	data, err := provider.FetchWeather(settings, createTestCity(t))

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "API key not configured")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ReasonConfig, fetchErr.Reason)
}

func TestOpenWeatherProvider_FetchWeather_HTTPError(t *testing.T) {
	setupHTTPMock(t)

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad_request", http.StatusBadRequest},
		{"unauthorized", http.StatusUnauthorized},
		{"not_found", http.StatusNotFound},
		{"too_many_requests", http.StatusTooManyRequests},
		{"internal_server_error", http.StatusInternalServerError},
		{"service_unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			registerOpenWeatherResponder(t, tt.statusCode, `{"cod": "401", "message": "Invalid API key"}`)

			provider := NewOpenWeatherProvider()
			settings := createTestSettings(t, "openweather")

			data, err := provider.FetchWeather(settings, createTestCity(t))

			require.Error(t, err)
			assert.Nil(t, data)

			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, ReasonStatus, fetchErr.Reason)
			assert.Equal(t, tt.statusCode, fetchErr.Status)
		})
	}
}

func TestOpenWeatherProvider_FetchWeather_SingleAttempt(t *testing.T) {
	setupHTTPMock(t)

	registerOpenWeatherResponder(t, http.StatusServiceUnavailable, `{"cod": "503"}`)

	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather")

	_, err := provider.FetchWeather(settings, createTestCity(t))

	require.Error(t, err)
	// A failed fetch is not retried
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestOpenWeatherProvider_FetchWeather_InvalidJSON(t *testing.T) {
	setupHTTPMock(t)

	registerOpenWeatherResponder(t, http.StatusOK, `{invalid json`)

	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather")

	data, err := provider.FetchWeather(settings, createTestCity(t))

	require.Error(t, err)
	assert.Nil(t, data)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ReasonParse, fetchErr.Reason)
}

func TestOpenWeatherProvider_FetchWeather_EmptyWeatherArray(t *testing.T) {
	setupHTTPMock(t)

	emptyWeatherResponse := `{
  "coord": { "lon": 24.9384, "lat": 60.1699 },
  "weather": [],
  "main": { "temp": 14.55, "feels_like": 13.88, "temp_min": 13.33, "temp_max": 15.65, "pressure": 1014, "humidity": 72 },
  "visibility": 10000,
  "wind": { "speed": 4.12, "deg": 240 },
  "clouds": { "all": 75 },
  "dt": 1736769600,
  "id": 658225,
  "name": "Helsinki"
}`
	registerOpenWeatherResponder(t, http.StatusOK, emptyWeatherResponse)

	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather")

	data, err := provider.FetchWeather(settings, createTestCity(t))

	require.Error(t, err)
	assert.Nil(t, data)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ReasonNoData, fetchErr.Reason)
}

func TestOpenWeatherProvider_FetchWeather_Precipitation(t *testing.T) {
	setupHTTPMock(t)

	rainResponse := `{
  "coord": { "lon": 24.9384, "lat": 60.1699 },
  "weather": [{ "id": 500, "main": "Rain", "description": "light rain", "icon": "10n" }],
  "main": { "temp": 8.2, "feels_like": 6.1, "temp_min": 7.0, "temp_max": 9.0, "pressure": 998, "humidity": 91 },
  "wind": { "speed": 6.2, "deg": 180 },
  "rain": { "1h": 1.4 },
  "clouds": { "all": 100 },
  "dt": 1736769600,
  "id": 658225,
  "name": "Helsinki"
}`
	registerOpenWeatherResponder(t, http.StatusOK, rainResponse)

	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather")

	data, err := provider.FetchWeather(settings, createTestCity(t))

	require.NoError(t, err)
	assert.Equal(t, "rain", data.Precipitation.Type)
	assert.InDelta(t, 1.4, data.Precipitation.Amount, 0.01)
	assert.False(t, data.DayIcon, "10n is a night icon")
}

func TestOpenWeatherProvider_FetchWeather_RequestError(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder("GET", `=~^https://api\.openweathermap\.org/data/2\.5/weather`,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	provider := NewOpenWeatherProvider()
	settings := createTestSettings(t, "openweather")

	data, err := provider.FetchWeather(settings, createTestCity(t))

	require.Error(t, err)
	assert.Nil(t, data)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ReasonRequest, fetchErr.Reason)
}

func TestOpenWeatherProvider_FetchUVIndex(t *testing.T) {
	setupHTTPMock(t)

	registerUVResponder(t, http.StatusOK, openWeatherUVSuccessResponse())

	provider := NewOpenWeatherProvider().(*OpenWeatherProvider)
	settings := createTestSettings(t, "openweather")

	uv, err := provider.FetchUVIndex(settings, 60.1699, 24.9384)

	require.NoError(t, err)
	assert.InDelta(t, 2.45, uv, 0.01)
}

func TestOpenWeatherProvider_FetchUVIndex_HTTPError(t *testing.T) {
	setupHTTPMock(t)

	registerUVResponder(t, http.StatusNotFound, `{"cod": 404}`)

	provider := NewOpenWeatherProvider().(*OpenWeatherProvider)
	settings := createTestSettings(t, "openweather")

	_, err := provider.FetchUVIndex(settings, 60.1699, 24.9384)

	require.Error(t, err)
}
