package weather

import "fmt"

// Temperature conversion constants
const (
	celsiusToFahrenheitScale  = 9.0 / 5.0
	celsiusToFahrenheitOffset = 32.0
	kelvinOffset              = 273.15
)

// FahrenheitToCelsius converts a temperature from Fahrenheit to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - celsiusToFahrenheitOffset) / celsiusToFahrenheitScale
}

// KelvinToCelsius converts a temperature from Kelvin to Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

// toCelsius normalizes a temperature from the configured unit system to
// Celsius, so metrics stay comparable across unit changes.
func toCelsius(value float64, units string) float64 {
	switch units {
	case "imperial":
		return FahrenheitToCelsius(value)
	case "standard":
		return KelvinToCelsius(value)
	default:
		return value
	}
}

// TempSuffix returns the degree suffix for the configured unit system.
func TempSuffix(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "standard":
		return "°K"
	default:
		return "°C"
	}
}

// beaufort upper bounds in m/s, index is the Beaufort number
var beaufortBoundsMps = []float64{0.2, 1.5, 3.3, 5.4, 7.9, 10.7, 13.8, 17.1, 20.7, 24.4, 28.4, 32.4, 36.9}

// ToBeaufort converts a wind speed in m/s to the Beaufort scale (0-12).
func ToBeaufort(speedMps float64) int {
	for bft, upper := range beaufortBoundsMps {
		if speedMps <= upper {
			return bft
		}
	}
	return 12
}

// compass points clockwise from north, 22.5 degrees apart
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint converts wind direction degrees to a 16-point compass code.
func CompassPoint(deg float64) string {
	for deg < 0 {
		deg += 360
	}
	idx := int((deg+11.25)/22.5) % 16
	return compassPoints[idx]
}

// WindSpeed formats a wind speed given in m/s into the configured wind unit.
func WindSpeed(speedMps float64, windUnit string) string {
	switch windUnit {
	case "kmh":
		return fmt.Sprintf("%.1f km/h", speedMps*3.6)
	case "mph":
		return fmt.Sprintf("%.1f mph", speedMps*2.23694)
	case "beaufort":
		return fmt.Sprintf("%d Bft", ToBeaufort(speedMps))
	default:
		return fmt.Sprintf("%.1f m/s", speedMps)
	}
}

// UVRisk classifies a UV index into the standard risk bands.
func UVRisk(index float64) string {
	switch {
	case index < 0:
		return ""
	case index <= 2.99:
		return "Low"
	case index <= 5.99:
		return "Moderate"
	case index <= 7.99:
		return "High"
	case index <= 10.99:
		return "Very high"
	default:
		return "Extreme"
	}
}
