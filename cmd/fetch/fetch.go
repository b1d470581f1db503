package fetch

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/errors"
	"github.com/dglent/meteo-go/internal/weather"
)

// Command creates a new command for a one-shot weather fetch.
func Command(settings *conf.Settings) *cobra.Command {
	var cityID int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch current weather once and print it",
		Long:  "Fetch current conditions for the primary city, or for --city, and print them to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(settings, cityID)
		},
	}

	cmd.Flags().IntVar(&cityID, "city", viper.GetInt("cities.primary"), "OpenWeatherMap id of the city to fetch")

	return cmd
}

func runFetch(settings *conf.Settings, cityID int) error {
	city, err := resolveCity(settings, cityID)
	if err != nil {
		return err
	}

	provider, err := weather.NewProvider(settings)
	if err != nil {
		return err
	}

	data, err := provider.FetchWeather(settings, city)
	if err != nil {
		return fmt.Errorf("fetching weather for %s: %w", city.Name, err)
	}

	printWeather(settings, data)
	return nil
}

func resolveCity(settings *conf.Settings, cityID int) (conf.CityEntry, error) {
	if cityID == 0 {
		cityID = settings.Cities.Primary
	}
	for _, c := range settings.Cities.List {
		if c.ID == cityID {
			return c, nil
		}
	}
	return conf.CityEntry{}, errors.Newf("no configured city with id %d, add one with \"meteo-go cities add\"", cityID).
		Component("fetch").
		Category(errors.CategoryNotFound).
		Context("city_id", cityID).
		Build()
}

func printWeather(settings *conf.Settings, data *weather.WeatherData) {
	suffix := weather.TempSuffix(settings.Weather.Units)

	fmt.Printf("%s, %s\n", data.Location.City, data.Location.Country)
	fmt.Printf("  %s\n", data.Description)
	fmt.Printf("  Temperature: %.1f%s (feels like %.1f%s)\n",
		data.Temperature.Current, suffix, data.Temperature.FeelsLike, suffix)
	fmt.Printf("  Wind:        %s %s\n",
		weather.WindSpeed(data.Wind.Speed, settings.Weather.WindUnit),
		weather.CompassPoint(float64(data.Wind.Deg)))
	fmt.Printf("  Humidity:    %d %%\n", data.Humidity)
	fmt.Printf("  Pressure:    %d hPa\n", data.Pressure)
	if data.Clouds > 0 {
		fmt.Printf("  Cloudiness:  %d %%\n", data.Clouds)
	}
	if data.Precipitation.Amount > 0 {
		fmt.Printf("  %s:        %.1f mm/h\n", data.Precipitation.Type, data.Precipitation.Amount)
	}
	if data.HasUV {
		fmt.Printf("  UV index:    %.1f (%s)\n", data.UVIndex, weather.UVRisk(data.UVIndex))
	}
	fmt.Printf("  Sunrise:     %s\n", data.Sunrise.Local().Format("15:04"))
	fmt.Printf("  Sunset:      %s\n", data.Sunset.Local().Format("15:04"))
}
