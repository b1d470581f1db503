package weather

import "strings"

// IconCode represents a standardized weather icon code
type IconCode string

// Standardized Icon Codes
const (
	IconClearSky     IconCode = "01"
	IconFair         IconCode = "02"
	IconPartlyCloudy IconCode = "03"
	IconCloudy       IconCode = "04"
	IconRainShowers  IconCode = "09"
	IconRain         IconCode = "10"
	IconThunderstorm IconCode = "11"
	IconSleet        IconCode = "12"
	IconSnow         IconCode = "13"
	IconFog          IconCode = "50"
	IconUnknown      IconCode = "unknown"
)

// OpenWeatherIconToIcon maps OpenWeatherMap icon codes to standardized icon
// codes. OpenWeatherMap suffixes day/night variants with "d"/"n"; the suffix
// is stripped before lookup.
var OpenWeatherIconToIcon = map[string]IconCode{
	"01": IconClearSky,
	"02": IconFair,
	"03": IconPartlyCloudy,
	"04": IconCloudy,
	"09": IconRainShowers,
	"10": IconRain,
	"11": IconThunderstorm,
	"13": IconSnow,
	"50": IconFog,
}

// SystemIconNames maps OpenWeatherMap icon codes to freedesktop icon theme
// names, used when the tray is set to render theme icons.
var SystemIconNames = map[string]string{
	"01d": "weather-clear",
	"01n": "weather-clear-night",
	"02d": "weather-few-clouds",
	"02n": "weather-few-clouds-night",
	"03d": "weather-clouds",
	"03n": "weather-clouds-night",
	"04d": "weather-many-clouds",
	"04n": "weather-many-clouds",
	"09d": "weather-showers",
	"09n": "weather-showers",
	"10d": "weather-showers-day",
	"10n": "weather-showers-night",
	"11d": "weather-storm-day",
	"11n": "weather-storm-night",
	"13d": "weather-snow",
	"13n": "weather-snow",
	"50d": "weather-fog",
}

// GetStandardIconCode converts a provider-specific icon code to the
// standardized icon code.
func GetStandardIconCode(code, provider string) IconCode {
	switch provider {
	case "openweather":
		trimmed := strings.TrimSuffix(strings.TrimSuffix(code, "d"), "n")
		if icon, ok := OpenWeatherIconToIcon[trimmed]; ok {
			return icon
		}
		return IconUnknown
	default:
		return IconUnknown
	}
}
