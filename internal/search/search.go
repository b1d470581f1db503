// Package search implements city lookup against the OpenWeatherMap find
// endpoint.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dglent/meteo-go/internal/conf"
	"github.com/dglent/meteo-go/internal/errors"
)

// MinQueryLength is the minimum number of characters a search query must
// have. Shorter queries are rejected before any network call.
const MinQueryLength = 3

const requestTimeout = 10 * time.Second

// Result is one city returned by a search.
type Result struct {
	ID          int
	Name        string
	Country     string
	Latitude    float64
	Longitude   float64
	Temperature float64
}

// Entry converts a search result into a persistable city entry.
func (r Result) Entry() conf.CityEntry {
	return conf.CityEntry{
		ID:        r.ID,
		Name:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// findResponse is the OpenWeatherMap find endpoint response.
type findResponse struct {
	Count int `json:"count"`
	List  []struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
	} `json:"list"`
}

// Searcher performs city lookups with a short-lived result cache so repeated
// queries within one session do not refetch.
type Searcher struct {
	settings *conf.Settings
	cache    *gocache.Cache
}

// NewSearcher creates a searcher with a 10 minute result cache.
func NewSearcher(settings *conf.Settings) *Searcher {
	return &Searcher{
		settings: settings,
		cache:    gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// Search looks up cities matching the query. Queries shorter than
// MinQueryLength are rejected with a validation error before any network
// call is made.
func (s *Searcher) Search(query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return nil, errors.Newf("search query must have at least %d characters", MinQueryLength).
			Component("search").
			Category(errors.CategoryValidation).
			Context("query", query).
			Build()
	}

	cacheKey := strings.ToLower(query)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]Result), nil
	}

	if s.settings.Weather.OpenWeather.APIKey == "" {
		return nil, errors.Newf("OpenWeather API key not configured").
			Component("search").
			Category(errors.CategoryConfiguration).
			Build()
	}

	reqURL := fmt.Sprintf("%s?q=%s&type=like&units=%s&appid=%s",
		s.settings.Weather.OpenWeather.FindEndpoint,
		url.QueryEscape(query),
		s.settings.Weather.Units,
		s.settings.Weather.OpenWeather.APIKey,
	)

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Get(reqURL)
	if err != nil {
		return nil, errors.New(err).
			Component("search").
			Category(errors.CategoryNetwork).
			Context("query", query).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("received non-200 response: %d", resp.StatusCode).
			Component("search").
			Category(errors.CategoryHTTP).
			Context("status", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Component("search").
			Category(errors.CategoryNetwork).
			Build()
	}

	var parsed findResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.New(err).
			Component("search").
			Category(errors.CategoryFileParsing).
			Context("query", query).
			Build()
	}

	results := make([]Result, 0, len(parsed.List))
	for _, item := range parsed.List {
		results = append(results, Result{
			ID:          item.ID,
			Name:        item.Name,
			Country:     item.Sys.Country,
			Latitude:    item.Coord.Lat,
			Longitude:   item.Coord.Lon,
			Temperature: item.Main.Temp,
		})
	}

	s.cache.Set(cacheKey, results, gocache.DefaultExpiration)
	return results, nil
}
