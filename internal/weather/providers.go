package weather

// NewOpenWeatherProvider creates a new OpenWeatherMap provider
func NewOpenWeatherProvider() Provider {
	return &OpenWeatherProvider{}
}

// Provider implementations
type OpenWeatherProvider struct{}
