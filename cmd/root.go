package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dglent/meteo-go/cmd/cities"
	"github.com/dglent/meteo-go/cmd/fetch"
	"github.com/dglent/meteo-go/cmd/search"
	"github.com/dglent/meteo-go/cmd/tray"
	"github.com/dglent/meteo-go/internal/app"
	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meteo-go",
		Short: "System tray weather application",
		Long:  "meteo-go shows current weather conditions from OpenWeatherMap in the system tray.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Running without a subcommand starts the tray application
			return app.Run(settings)
		},
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		logging.Error("Failed to bind global flags", "error", err)
	}

	subcommands := []*cobra.Command{
		tray.Command(settings),
		fetch.Command(settings),
		search.Command(settings),
		cities.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Weather.OpenWeather.APIKey, "apikey", viper.GetString("weather.openweather.apikey"), "OpenWeatherMap API key")
	rootCmd.PersistentFlags().StringVarP(&settings.Weather.Units, "units", "u", viper.GetString("weather.units"), "Measurement units (\"metric\", \"imperial\" or \"standard\")")
	rootCmd.PersistentFlags().StringVar(&settings.Weather.Language, "language", viper.GetString("weather.language"), "Language code for weather descriptions")
	rootCmd.PersistentFlags().IntVar(&settings.Weather.PollInterval, "interval", viper.GetInt("weather.pollinterval"), "Weather update interval in minutes")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
