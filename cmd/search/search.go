package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/search"
	"github.com/dglent/meteo-go/internal/weather"
)

// Command creates a new command for searching cities by name.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cities by name",
		Long:  "Search OpenWeatherMap for cities matching the query and print id, name, country and coordinates.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(settings, strings.Join(args, " "))
		},
	}

	return cmd
}

func runSearch(settings *conf.Settings, query string) error {
	searcher := search.NewSearcher(settings)

	results, err := searcher.Search(query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("No cities found for %q\n", query)
		return nil
	}

	suffix := weather.TempSuffix(settings.Weather.Units)
	for _, r := range results {
		fmt.Printf("%-10d %s, %s  (%.4f, %.4f)  %.1f%s\n",
			r.ID, r.Name, r.Country, r.Latitude, r.Longitude, r.Temperature, suffix)
	}
	return nil
}
