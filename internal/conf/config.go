// config.go: settings struct for the meteo-go tray application and the
// functions to load and save it. The persisted city list lives in the same
// YAML document as the rest of the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// LogConfig contains settings for a rotating log file.
type LogConfig struct {
	Enabled  bool   // true to enable file logging
	Path     string // path to the log file
	MaxSize  int    // maximum log file size in MB before rotation
	MaxAge   int    // days to keep rotated files
	MaxFiles int    // rotated files to keep
}

// MainSettings contains top-level application settings.
type MainSettings struct {
	Name string    // application instance name
	Log  LogConfig // log file settings
}

// OpenWeatherSettings contains settings for the OpenWeatherMap integration.
type OpenWeatherSettings struct {
	APIKey       string `yaml:"apikey"`       // OpenWeatherMap API key
	Endpoint     string `yaml:"endpoint"`     // current weather endpoint
	FindEndpoint string `yaml:"findendpoint"` // city search endpoint
	UVEndpoint   string `yaml:"uvendpoint"`   // UV index endpoint
	IconEndpoint string `yaml:"iconendpoint"` // weather icon image base URL
}

// WeatherSettings contains all weather data related settings.
type WeatherSettings struct {
	Provider     string              // weather data provider, "openweather"
	PollInterval int                 // polling interval in minutes
	Units        string              // "metric", "imperial" or "standard"
	WindUnit     string              // "mps", "kmh", "mph" or "beaufort"
	Language     string              // language code for API responses, applied on restart
	Debug        bool                // true to enable debug logging for the weather service
	OpenWeather  OpenWeatherSettings // OpenWeatherMap integration settings
}

// DisplaySettings contains tray presentation settings.
type DisplaySettings struct {
	TrayType string // "icon&temp", "icon", "temp", "feels_like_temp" or "icon&feels_like"

	// TrayColor, FontSize and Bold are persisted and validated for the
	// config format, but the tray backend renders title text unstyled, so
	// they are not applied.
	TrayColor string
	FontSize  int
	Bold      bool

	Decimal       bool // show one decimal in temperatures
	Notifications bool // show a desktop notification on refresh

	// StartMinimized is persisted for the config format; there is no
	// overview window to minimize.
	StartMinimized bool
}

// CityEntry is one persisted city record. Cities are identified by their
// OpenWeatherMap numeric id.
type CityEntry struct {
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name"`
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// CityListSettings holds the ordered city list and the primary city shown in
// the tray.
type CityListSettings struct {
	Primary int         `yaml:"primary"` // OpenWeatherMap id of the primary city, 0 when unset
	List    []CityEntry `yaml:"list"`    // ordered list of configured cities
}

// TelemetrySettings contains settings for the optional Prometheus endpoint.
type TelemetrySettings struct {
	Enabled bool   // true to enable the telemetry endpoint
	Listen  string // listen address and port
}

// Settings is the root of the applications configuration.
type Settings struct {
	Debug bool // true to enable debug output

	Main      MainSettings
	Weather   WeatherSettings
	Display   DisplaySettings
	Cities    CityListSettings
	Telemetry TelemetrySettings
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment into a Settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// First run, write the embedded defaults to the user config dir
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the first default
// config path and loads it.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading embedded config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// The accessors below take the settings lock so fields the config watcher
// rewrites at runtime can be read from the scheduler and tray goroutines.

// GetPollInterval returns the poll interval in minutes.
func (s *Settings) GetPollInterval() int {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return s.Weather.PollInterval
}

// SetPollInterval updates the poll interval in minutes. The scheduler picks
// the new value up on its next tick.
func (s *Settings) SetPollInterval(minutes int) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	s.Weather.PollInterval = minutes
}

// GetDisplay returns a copy of the display settings.
func (s *Settings) GetDisplay() DisplaySettings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return s.Display
}

// SetDisplay replaces the display settings.
func (s *Settings) SetDisplay(display DisplaySettings) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	s.Display = display
}

// GetUnits returns the measurement unit system and the wind speed unit.
func (s *Settings) GetUnits() (units, windUnit string) {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return s.Weather.Units, s.Weather.WindUnit
}

// SetCities replaces the persisted city list.
func (s *Settings) SetCities(cities CityListSettings) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	s.Cities = cities
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			if _, err := Load(); err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveSettings saves the current settings to the configuration file using an
// atomic write.
func SaveSettings() error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()

	// Copy so the marshal does not race with concurrent readers of the slices
	settingsCopy := *settingsInstance
	settingsCopy.Cities.List = make([]CityEntry, len(settingsInstance.Cities.List))
	copy(settingsCopy.Cities.List, settingsInstance.Cities.List)

	configPath, err := FindConfigFile()
	if err != nil {
		return fmt.Errorf("error finding config file: %w", err)
	}

	if err := SaveYAMLConfig(configPath, &settingsCopy); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

// SaveYAMLConfig updates the YAML configuration file with new settings.
// It overwrites the existing file, not preserving comments.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// Write to a temporary file first to get an atomic replace
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return fmt.Errorf("error writing temporary config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("error closing temporary config file: %w", err)
	}

	if err := os.Rename(tempName, configPath); err != nil {
		os.Remove(tempName)
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}
