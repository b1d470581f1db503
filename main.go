package main

import (
	"fmt"
	"os"

	"github.com/dglent/meteo-go/cmd"
	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(settings.Debug)

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}
