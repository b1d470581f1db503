package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dglent/meteo-go/internal/conf"
)

// OpenWeatherResponse represents the structure of weather data returned by the
// OpenWeatherMap current weather API
type OpenWeatherResponse struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneHour float64 `json:"1h"`
	} `json:"snow"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FetchWeather implements the Provider interface for OpenWeatherProvider.
// A single attempt is made; failures are returned as *FetchError for the
// caller to surface.
func (p *OpenWeatherProvider) FetchWeather(settings *conf.Settings, city conf.CityEntry) (*WeatherData, error) {
	if settings.Weather.OpenWeather.APIKey == "" {
		return nil, &FetchError{Reason: ReasonConfig, Err: fmt.Errorf("OpenWeather API key not configured")}
	}

	url := fmt.Sprintf("%s?id=%d&appid=%s&units=%s&lang=%s",
		settings.Weather.OpenWeather.Endpoint,
		city.ID,
		settings.Weather.OpenWeather.APIKey,
		settings.Weather.Units,
		settings.Weather.Language,
	)

	body, err := httpGet(url)
	if err != nil {
		return nil, err
	}

	var weatherData OpenWeatherResponse
	if err := json.Unmarshal(body, &weatherData); err != nil {
		return nil, &FetchError{Reason: ReasonParse, Err: fmt.Errorf("error unmarshaling weather data: %w", err)}
	}

	// Safety check for weather data
	if len(weatherData.Weather) == 0 {
		return nil, &FetchError{Reason: ReasonNoData, Err: fmt.Errorf("no weather conditions returned from API")}
	}

	cond := weatherData.Weather[0]
	precipitation := Precipitation{}
	switch {
	case weatherData.Rain.OneHour > 0:
		precipitation = Precipitation{Amount: weatherData.Rain.OneHour, Type: "rain"}
	case weatherData.Snow.OneHour > 0:
		precipitation = Precipitation{Amount: weatherData.Snow.OneHour, Type: "snow"}
	}

	data := &WeatherData{
		Time:   time.Unix(weatherData.Dt, 0),
		CityID: weatherData.ID,
		Location: Location{
			Latitude:  weatherData.Coord.Lat,
			Longitude: weatherData.Coord.Lon,
			Country:   weatherData.Sys.Country,
			City:      weatherData.Name,
		},
		Temperature: Temperature{
			Current:   weatherData.Main.Temp,
			FeelsLike: weatherData.Main.FeelsLike,
			Min:       weatherData.Main.TempMin,
			Max:       weatherData.Main.TempMax,
		},
		Wind: Wind{
			Speed: weatherData.Wind.Speed,
			Deg:   weatherData.Wind.Deg,
			Gust:  weatherData.Wind.Gust,
		},
		Precipitation: precipitation,
		Clouds:        weatherData.Clouds.All,
		Visibility:    weatherData.Visibility,
		Pressure:      weatherData.Main.Pressure,
		Humidity:      weatherData.Main.Humidity,
		ConditionID:   cond.ID,
		Description:   cond.Description,
		Icon:          string(GetStandardIconCode(cond.Icon, "openweather")),
		DayIcon:       strings.HasSuffix(cond.Icon, "d"),
	}
	if weatherData.Sys.Sunrise > 0 {
		data.Sunrise = time.Unix(weatherData.Sys.Sunrise, 0)
	}
	if weatherData.Sys.Sunset > 0 {
		data.Sunset = time.Unix(weatherData.Sys.Sunset, 0)
	}
	// The city id is the identity key; fall back to the requested id when the
	// response omits it.
	if data.CityID == 0 {
		data.CityID = city.ID
	}

	return data, nil
}

// httpGet performs one GET request with the shared timeout and classifies
// failures into FetchError reasons.
func httpGet(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: RequestTimeout,
	}

	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &FetchError{Reason: ReasonRequest, Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &FetchError{Reason: ReasonTimeout, Err: err}
		}
		return nil, &FetchError{Reason: ReasonRequest, Err: fmt.Errorf("error fetching weather data: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Reason: ReasonStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("received non-200 response: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Reason: ReasonRequest, Err: fmt.Errorf("error reading response body: %w", err)}
	}
	return body, nil
}
