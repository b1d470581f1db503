package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *Settings {
	return &Settings{
		Weather: WeatherSettings{
			Provider:     "openweather",
			PollInterval: 30,
			Units:        "metric",
			WindUnit:     "mps",
			Language:     "en",
		},
		Display: DisplaySettings{
			TrayType: "icon&temp",
			FontSize: 18,
		},
	}
}

func TestValidateSettings_RepairsOutOfRangeValues(t *testing.T) {
	s := testSettings()
	s.Weather.PollInterval = 0
	s.Weather.Units = "kelvinish"
	s.Weather.WindUnit = "knots"
	s.Display.TrayType = "everything"
	s.Display.FontSize = 200

	require.NoError(t, ValidateSettings(s))

	assert.Equal(t, 30, s.Weather.PollInterval)
	assert.Equal(t, "metric", s.Weather.Units)
	assert.Equal(t, "mps", s.Weather.WindUnit)
	assert.Equal(t, "icon&temp", s.Display.TrayType)
	assert.Equal(t, 18, s.Display.FontSize)
}

func TestValidateSettings_InvalidProvider(t *testing.T) {
	s := testSettings()
	s.Weather.Provider = "metoffice"

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weather provider")
}

func TestValidateSettings_DuplicateCity(t *testing.T) {
	s := testSettings()
	s.Cities.List = []CityEntry{
		{ID: 2643743, Name: "London", Country: "GB"},
		{ID: 2643743, Name: "London", Country: "GB"},
	}

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate city id")
}

func TestValidateSettings_PrimaryRepair(t *testing.T) {
	s := testSettings()
	s.Cities.List = []CityEntry{
		{ID: 2643743, Name: "London", Country: "GB"},
		{ID: 2988507, Name: "Paris", Country: "FR"},
	}

	// Dangling primary falls back to the first city
	s.Cities.Primary = 999
	require.NoError(t, ValidateSettings(s))
	assert.Equal(t, 2643743, s.Cities.Primary)

	// Unset primary also falls back to the first city
	s.Cities.Primary = 0
	require.NoError(t, ValidateSettings(s))
	assert.Equal(t, 2643743, s.Cities.Primary)

	// Empty list keeps primary unset
	s.Cities.List = nil
	s.Cities.Primary = 0
	require.NoError(t, ValidateSettings(s))
	assert.Equal(t, 0, s.Cities.Primary)
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	s := testSettings()
	s.Cities.List = []CityEntry{
		{ID: 658225, Name: "Helsinki", Country: "FI", Latitude: 60.1699, Longitude: 24.9384},
	}
	s.Cities.Primary = 658225

	require.NoError(t, SaveYAMLConfig(configPath, s))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Helsinki")
	assert.Contains(t, string(data), "primary: 658225")

	// No temp file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEmbeddedDefaultConfigPresent(t *testing.T) {
	data := getDefaultConfig()
	assert.Contains(t, data, "pollinterval: 30")
	assert.Contains(t, data, "traytype: icon&temp")
}
