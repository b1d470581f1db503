// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "meteo-go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/meteo-go.log")
	viper.SetDefault("main.log.maxsize", 10)
	viper.SetDefault("main.log.maxage", 28)
	viper.SetDefault("main.log.maxfiles", 3)

	viper.SetDefault("weather.provider", "openweather")
	viper.SetDefault("weather.pollinterval", 30)
	viper.SetDefault("weather.units", "metric")
	viper.SetDefault("weather.windunit", "mps")
	viper.SetDefault("weather.language", "en")
	viper.SetDefault("weather.debug", false)
	viper.SetDefault("weather.openweather.apikey", "")
	viper.SetDefault("weather.openweather.endpoint", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("weather.openweather.findendpoint", "https://api.openweathermap.org/data/2.5/find")
	viper.SetDefault("weather.openweather.uvendpoint", "https://api.openweathermap.org/data/2.5/uvi")
	viper.SetDefault("weather.openweather.iconendpoint", "https://openweathermap.org/img/w")

	viper.SetDefault("display.traytype", "icon&temp")
	viper.SetDefault("display.traycolor", "")
	viper.SetDefault("display.fontsize", 18)
	viper.SetDefault("display.bold", false)
	viper.SetDefault("display.decimal", false)
	viper.SetDefault("display.notifications", true)
	viper.SetDefault("display.startminimized", true)

	viper.SetDefault("cities.primary", 0)
	viper.SetDefault("cities.list", []CityEntry{})

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")
}
