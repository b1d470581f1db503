package tray

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dglent/meteo-go/internal/conf"
)

func iconTestSettings() *conf.Settings {
	return &conf.Settings{
		Weather: conf.WeatherSettings{
			OpenWeather: conf.OpenWeatherSettings{
				IconEndpoint: "https://openweathermap.org/img/w",
			},
		},
	}
}

func TestIconCacheGet(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	fakePNG := []byte("\x89PNG\r\n\x1a\nfake")
	httpmock.RegisterResponder("GET", "https://openweathermap.org/img/w/04d.png",
		httpmock.NewBytesResponder(http.StatusOK, fakePNG))

	ic := NewIconCache(iconTestSettings())

	data, err := ic.Get("04d")
	require.NoError(t, err)
	assert.Equal(t, fakePNG, data)

	// Second call is served from cache
	data, err = ic.Get("04d")
	require.NoError(t, err)
	assert.Equal(t, fakePNG, data)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestIconCacheGetHTTPError(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("GET", "https://openweathermap.org/img/w/99x.png",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	ic := NewIconCache(iconTestSettings())

	_, err := ic.Get("99x")
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
