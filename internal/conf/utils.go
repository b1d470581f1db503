package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const osWindows = "windows"

// GetDefaultConfigPaths returns a list of default configuration paths for the
// current operating system, ordered by preference.
func GetDefaultConfigPaths() ([]string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error fetching executable path: %w", err)
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching home directory: %w", err)
	}

	var configPaths []string
	switch runtime.GOOS {
	case osWindows:
		configPaths = []string{
			filepath.Join(homeDir, "AppData", "Roaming", "meteo-go"),
			exeDir,
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "meteo-go"),
			"/etc/meteo-go",
		}
	}

	return configPaths, nil
}

// FindConfigFile locates an existing config.yaml in the default config paths.
func FindConfigFile() (string, error) {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range configPaths {
		configFile := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFile); err == nil {
			return configFile, nil
		}
	}

	return "", fmt.Errorf("config.yaml not found in any of the default paths")
}

// ConfigFileDescription returns the path of the loaded config file for user
// facing messages, or "config.yaml" when no file has been located yet.
func ConfigFileDescription() string {
	if path, err := FindConfigFile(); err == nil {
		return path
	}
	return "config.yaml"
}
