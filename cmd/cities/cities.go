package cities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dglent/meteo-go/internal/city"
	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/errors"
	"github.com/dglent/meteo-go/internal/search"
)

// Command creates a new command for managing the configured city list.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "Manage the configured city list",
		Long:  "List, add, remove and reorder the cities the tray application cycles through.",
	}

	cmd.AddCommand(
		listCommand(settings),
		addCommand(settings),
		removeCommand(settings),
		primaryCommand(settings),
	)

	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the configured cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(settings.Cities.List) == 0 {
				fmt.Println("No cities configured, add one with \"meteo-go cities add\"")
				return nil
			}
			for _, c := range settings.Cities.List {
				marker := " "
				if c.ID == settings.Cities.Primary {
					marker = "*"
				}
				fmt.Printf("%s %-10d %s, %s  (%.4f, %.4f)\n",
					marker, c.ID, c.Name, c.Country, c.Latitude, c.Longitude)
			}
			return nil
		},
	}
}

func addCommand(settings *conf.Settings) *cobra.Command {
	var pickID int

	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Search for a city and add it to the list",
		Long:  "Search OpenWeatherMap for the query and add the match to the city list. Use --id to pick one when the query is ambiguous.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(settings, strings.Join(args, " "), pickID)
		},
	}

	cmd.Flags().IntVar(&pickID, "id", 0, "OpenWeatherMap id to pick from the search results")

	return cmd
}

func runAdd(settings *conf.Settings, query string, pickID int) error {
	searcher := search.NewSearcher(settings)

	results, err := searcher.Search(query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errors.Newf("no cities found for %q", query).
			Component("cities").
			Category(errors.CategoryNotFound).
			Build()
	}

	var entry conf.CityEntry
	switch {
	case pickID != 0:
		found := false
		for _, r := range results {
			if r.ID == pickID {
				entry = r.Entry()
				found = true
				break
			}
		}
		if !found {
			return errors.Newf("id %d is not among the results for %q", pickID, query).
				Component("cities").
				Category(errors.CategoryNotFound).
				Build()
		}
	case len(results) == 1:
		entry = results[0].Entry()
	default:
		fmt.Printf("Multiple cities match %q, pick one with --id:\n", query)
		for _, r := range results {
			fmt.Printf("  %-10d %s, %s  (%.4f, %.4f)\n",
				r.ID, r.Name, r.Country, r.Latitude, r.Longitude)
		}
		return nil
	}

	store := city.NewStore(settings.Cities)
	if err := store.Add(entry); err != nil {
		return err
	}

	if err := persist(settings, store); err != nil {
		return err
	}
	fmt.Printf("Added %s, %s (%d)\n", entry.Name, entry.Country, entry.ID)
	return nil
}

func removeCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a city from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store := city.NewStore(settings.Cities)
			if err := store.Remove(id); err != nil {
				return err
			}

			if err := persist(settings, store); err != nil {
				return err
			}
			fmt.Printf("Removed city %d\n", id)
			return nil
		},
	}
}

func primaryCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "primary <id>",
		Short: "Set the primary city shown in the tray",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store := city.NewStore(settings.Cities)
			if err := store.SetPrimary(id); err != nil {
				return err
			}

			if err := persist(settings, store); err != nil {
				return err
			}
			fmt.Printf("Primary city is now %d\n", id)
			return nil
		},
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.Newf("invalid city id %q, expected a positive OpenWeatherMap id", arg).
			Component("cities").
			Category(errors.CategoryValidation).
			Build()
	}
	return id, nil
}

func persist(settings *conf.Settings, store *city.Store) error {
	settings.SetCities(store.Settings())
	if err := conf.SaveSettings(); err != nil {
		return fmt.Errorf("saving city list: %w", err)
	}
	return nil
}
