package weather

import (
	"encoding/json"
	"fmt"

	"github.com/dglent/meteo-go/internal/conf"
)

// openWeatherUVResponse is the OpenWeatherMap UV index response.
type openWeatherUVResponse struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
}

// FetchUVIndex fetches the UV index for the given coordinates. A UV failure
// never fails the whole snapshot; callers leave the UV field unset instead.
func (p *OpenWeatherProvider) FetchUVIndex(settings *conf.Settings, latitude, longitude float64) (float64, error) {
	if settings.Weather.OpenWeather.APIKey == "" {
		return 0, &FetchError{Reason: ReasonConfig, Err: fmt.Errorf("OpenWeather API key not configured")}
	}

	url := fmt.Sprintf("%s?lat=%.4f&lon=%.4f&appid=%s",
		settings.Weather.OpenWeather.UVEndpoint,
		latitude,
		longitude,
		settings.Weather.OpenWeather.APIKey,
	)

	body, err := httpGet(url)
	if err != nil {
		return 0, err
	}

	var uvData openWeatherUVResponse
	if err := json.Unmarshal(body, &uvData); err != nil {
		return 0, &FetchError{Reason: ReasonParse, Err: fmt.Errorf("error unmarshaling UV data: %w", err)}
	}

	return uvData.Value, nil
}
