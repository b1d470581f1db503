package conf

import (
	"fmt"

	"github.com/dglent/meteo-go/internal/errors"
)

// Valid enumerations for settings values.
var (
	validUnits = map[string]bool{
		"metric":   true,
		"imperial": true,
		"standard": true,
	}
	validWindUnits = map[string]bool{
		"mps":      true,
		"kmh":      true,
		"mph":      true,
		"beaufort": true,
	}
	validTrayTypes = map[string]bool{
		"icon&temp":       true,
		"icon":            true,
		"temp":            true,
		"feels_like_temp": true,
		"icon&feels_like": true,
	}
)

// ValidateSettings checks a loaded Settings instance and repairs recoverable
// problems with defaults. Only unrecoverable combinations return an error;
// the application prefers degraded display over refusing to start.
func ValidateSettings(settings *Settings) error {
	if settings.Weather.Provider != "openweather" {
		return errors.Newf("invalid weather provider: %s", settings.Weather.Provider).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Weather.Provider).
			Build()
	}

	if settings.Weather.PollInterval < 1 {
		settings.Weather.PollInterval = 30
	}

	if !validUnits[settings.Weather.Units] {
		settings.Weather.Units = "metric"
	}
	if !validWindUnits[settings.Weather.WindUnit] {
		settings.Weather.WindUnit = "mps"
	}
	if !validTrayTypes[settings.Display.TrayType] {
		settings.Display.TrayType = "icon&temp"
	}
	if settings.Display.FontSize < 6 || settings.Display.FontSize > 72 {
		settings.Display.FontSize = 18
	}

	if err := validateCityList(&settings.Cities); err != nil {
		return err
	}

	return nil
}

// validateCityList rejects duplicate ids and repairs a dangling primary
// reference by pointing it at the first configured city.
func validateCityList(cities *CityListSettings) error {
	seen := make(map[int]bool, len(cities.List))
	for i := range cities.List {
		c := &cities.List[i]
		if c.ID == 0 {
			return errors.Newf("city %q has no id", c.Name).
				Component("conf").
				Category(errors.CategoryValidation).
				Context("position", fmt.Sprintf("%d", i)).
				Build()
		}
		if seen[c.ID] {
			return errors.Newf("duplicate city id %d in city list", c.ID).
				Component("conf").
				Category(errors.CategoryValidation).
				Context("id", c.ID).
				Build()
		}
		seen[c.ID] = true
	}

	if cities.Primary != 0 && !seen[cities.Primary] {
		if len(cities.List) > 0 {
			cities.Primary = cities.List[0].ID
		} else {
			cities.Primary = 0
		}
	}
	if cities.Primary == 0 && len(cities.List) > 0 {
		cities.Primary = cities.List[0].ID
	}

	return nil
}
