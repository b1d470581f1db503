package tray

import (
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/errors"
)

const iconRequestTimeout = 10 * time.Second

// IconCache fetches weather icon images from the OpenWeatherMap image server
// and keeps them for the lifetime of the process. Icon art does not change,
// so entries never expire.
type IconCache struct {
	settings *conf.Settings
	cache    *gocache.Cache
}

// NewIconCache creates an icon cache backed by the configured icon endpoint.
func NewIconCache(settings *conf.Settings) *IconCache {
	return &IconCache{
		settings: settings,
		cache:    gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the PNG bytes for an icon code such as "04d".
func (ic *IconCache) Get(code string) ([]byte, error) {
	if cached, found := ic.cache.Get(code); found {
		return cached.([]byte), nil
	}

	url := fmt.Sprintf("%s/%s.png", ic.settings.Weather.OpenWeather.IconEndpoint, code)

	client := &http.Client{Timeout: iconRequestTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, errors.New(err).
			Component("tray").
			Category(errors.CategoryNetwork).
			Context("icon", code).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("received non-200 response for icon %s: %d", code, resp.StatusCode).
			Component("tray").
			Category(errors.CategoryHTTP).
			Context("icon", code).
			Build()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Component("tray").
			Category(errors.CategoryNetwork).
			Context("icon", code).
			Build()
	}

	ic.cache.Set(code, data, gocache.NoExpiration)
	return data, nil
}
