package tray

import (
	"github.com/spf13/cobra"

	"github.com/dglent/meteo-go/internal/app"
	"github.com/dglent/meteo-go/internal/conf"
)

// Command creates a new command to run the tray application.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Run the system tray application",
		Long:  "Start the weather tray icon and refresh weather data periodically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(settings)
		},
	}

	return cmd
}
