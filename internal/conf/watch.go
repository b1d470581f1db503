package conf

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ChangeSummary describes which runtime-relevant settings moved when the
// config file was edited.
type ChangeSummary struct {
	IntervalChanged bool // applies on the next scheduler tick
	DisplayChanged  bool // applies on the next tray update
	RestartRequired bool // the response language only applies after a restart
}

func (c ChangeSummary) any() bool {
	return c.IntervalChanged || c.DisplayChanged || c.RestartRequired
}

// WatchConfig applies edits to the config file to the live settings
// instance. Poll interval and display settings take effect without a
// restart; a language change is recorded but only applies on the next start,
// which is surfaced to the caller so the user can be told.
func WatchConfig(settings *Settings, onChange func(ChangeSummary)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		summary := applyConfigChange(settings)
		if onChange != nil && summary.any() {
			onChange(summary)
		}
	})
	viper.WatchConfig()
}

// applyConfigChange reads the re-parsed config from viper and applies the
// runtime-changeable fields through the locked setters.
func applyConfigChange(settings *Settings) ChangeSummary {
	var summary ChangeSummary

	if interval := viper.GetInt("weather.pollinterval"); interval >= 1 && interval != settings.GetPollInterval() {
		settings.SetPollInterval(interval)
		summary.IntervalChanged = true
	}

	// The language is only read at startup, a change is surfaced but
	// deliberately not applied to the running process.
	if lang := viper.GetString("weather.language"); lang != "" && lang != settings.Weather.Language {
		summary.RestartRequired = true
	}

	display := DisplaySettings{
		TrayType:       viper.GetString("display.traytype"),
		TrayColor:      viper.GetString("display.traycolor"),
		FontSize:       viper.GetInt("display.fontsize"),
		Bold:           viper.GetBool("display.bold"),
		Decimal:        viper.GetBool("display.decimal"),
		Notifications:  viper.GetBool("display.notifications"),
		StartMinimized: viper.GetBool("display.startminimized"),
	}
	if validTrayTypes[display.TrayType] && display != settings.GetDisplay() {
		settings.SetDisplay(display)
		summary.DisplayChanged = true
	}

	return summary
}
