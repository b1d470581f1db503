// Package tray renders the primary city's weather into the system tray.
package tray

import (
	"fmt"
	"strings"
	"time"

	"github.com/dglent/meteo-go/internal/city"
	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/suncalc"
	"github.com/dglent/meteo-go/internal/weather"
)

// State is the input to the tray projection: the primary city, its snapshot
// and the relevant settings.
type State struct {
	HasCity  bool
	City     conf.CityEntry
	Snapshot *city.Snapshot
	Display  conf.DisplaySettings
	Units    string
	WindUnit string
}

// TrayState is the pure projection of State onto what the tray shows. It
// contains no systray handles so it can be tested without a desktop session.
type TrayState struct {
	Label   string // temperature text, empty for icon-only modes
	Icon    string // OpenWeatherMap icon code with day/night suffix, empty when no icon should show
	Tooltip string
	Error   bool // render the dimmed error variant, data may be stale
}

const (
	tooltipNoCity   = "No city configured"
	tooltipFetching = "Searching for weather data..."
)

// Render projects the current state into the tray presentation.
func Render(st State) TrayState {
	if !st.HasCity {
		return TrayState{Tooltip: tooltipNoCity}
	}

	snap := st.Snapshot
	if snap == nil || snap.Data == nil {
		out := TrayState{Tooltip: tooltipFetching}
		if snap != nil && snap.Err != nil {
			out.Error = true
			out.Tooltip = fmt.Sprintf("%s %s: %v", st.City.Name, st.City.Country, snap.Err)
		}
		return out
	}

	data := snap.Data
	out := TrayState{
		Label:   trayLabel(st, data),
		Icon:    trayIcon(st, data),
		Tooltip: tooltip(st, data, snap),
		Error:   snap.Err != nil,
	}
	return out
}

// trayLabel formats the temperature text for the configured display mode.
func trayLabel(st State, data *weather.WeatherData) string {
	mode := st.Display.TrayType
	if mode == "icon" {
		return ""
	}

	value := data.Temperature.Current
	if mode == "feels_like_temp" || mode == "icon&feels_like" {
		value = data.Temperature.FeelsLike
	}
	return formatTemp(value, st.Display.Decimal) + "°"
}

// trayIcon returns the icon code to render, empty for text-only modes.
func trayIcon(st State, data *weather.WeatherData) string {
	mode := st.Display.TrayType
	if mode == "temp" || mode == "feels_like_temp" {
		return ""
	}
	suffix := "n"
	if data.DayIcon {
		suffix = "d"
	}
	return data.Icon + suffix
}

// tooltip builds the multi-line tray tooltip: city line with the temperature
// and its trend arrow, the feels-like line and the condition description.
func tooltip(st State, data *weather.WeatherData, snap *city.Snapshot) string {
	suffix := weather.TempSuffix(st.Units)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s%s%s",
		st.City.Name,
		st.City.Country,
		formatTemp(data.Temperature.Current, st.Display.Decimal),
		suffix,
		snap.TempTrend,
	)
	fmt.Fprintf(&b, "\nFeels like %s%s", formatTemp(data.Temperature.FeelsLike, st.Display.Decimal), suffix)
	if data.Description != "" {
		fmt.Fprintf(&b, "\n%s", data.Description)
	}
	fmt.Fprintf(&b, "\nWind %s %s", weather.WindSpeed(data.Wind.Speed, st.WindUnit), weather.CompassPoint(float64(data.Wind.Deg)))
	fmt.Fprintf(&b, "\nHumidity %d%%  Pressure %d hPa%s", data.Humidity, data.Pressure, pressureArrow(snap.PressureTrend))
	if data.HasUV {
		fmt.Fprintf(&b, "\nUV %.1f %s", data.UVIndex, weather.UVRisk(data.UVIndex))
	}
	if !data.Sunrise.IsZero() && !data.Sunset.IsZero() {
		fmt.Fprintf(&b, "\nSunrise %s  Sunset %s",
			data.Sunrise.Local().Format("15:04"),
			data.Sunset.Local().Format("15:04"))
		daylight := suncalc.SunEventTimes{Sunrise: data.Sunrise, Sunset: data.Sunset}.Daylight().Round(time.Minute)
		fmt.Fprintf(&b, "\nDaylight %dh %02dm", int(daylight.Hours()), int(daylight.Minutes())%60)
	}
	if snap.Err != nil {
		fmt.Fprintf(&b, "\n(stale: %v)", snap.Err)
	}
	return b.String()
}

// notificationIcon maps the tray icon code to the freedesktop icon theme
// name desktop notifications use. Empty when the code has no theme icon.
func notificationIcon(code string) string {
	return weather.SystemIconNames[code]
}

func pressureArrow(trend float64) string {
	switch {
	case trend > 0:
		return " ↗"
	case trend < 0:
		return " ↘"
	default:
		return ""
	}
}

func formatTemp(value float64, decimal bool) string {
	if decimal {
		return fmt.Sprintf("%.1f", value)
	}
	return fmt.Sprintf("%.0f", value)
}

// NotificationText decides whether a refresh should raise a desktop
// notification and returns its body, or "" when none should be shown.
// Notifications fire on a city change and on temperature movement, matching
// the tray tooltip's first line.
func NotificationText(st State, lastCityID int) string {
	if !st.Display.Notifications || !st.HasCity || st.Snapshot == nil || st.Snapshot.Data == nil {
		return ""
	}
	if st.Snapshot.Err != nil {
		return ""
	}
	cityChanged := st.City.ID != lastCityID
	if !cityChanged && !st.Snapshot.TempChanged {
		return ""
	}

	data := st.Snapshot.Data
	return fmt.Sprintf("%s %s %s%s%s %s",
		st.City.Name,
		st.City.Country,
		formatTemp(data.Temperature.Current, st.Display.Decimal),
		weather.TempSuffix(st.Units),
		st.Snapshot.TempTrend,
		data.Description,
	)
}
