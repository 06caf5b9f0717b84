package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// OpenWeatherSource fetches current weather observations from OpenWeatherMap.
type OpenWeatherSource struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherSource(client *http.Client, apiKey string) *OpenWeatherSource {
	return &OpenWeatherSource{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("openweather"),
	}
}

func (s *OpenWeatherSource) Name() string {
	return s.name
}

func (s *OpenWeatherSource) FetchWeather(ctx context.Context, lat, lon float64) (agridata.WeatherObservation, error) {
	if s.apiKey == "" {
		return agridata.WeatherObservation{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("appid", s.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	var payload struct {
		Main struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
	}

	if err := getJSON(ctx, s.httpCfg, s.circuit, buildRequest, &payload); err != nil {
		return agridata.WeatherObservation{}, err
	}

	if payload.Main.Temp == nil {
		return agridata.WeatherObservation{}, fmt.Errorf("openweather response missing observation data")
	}

	return agridata.WeatherObservation{
		TempC:       payload.Main.Temp,
		HumidityPct: payload.Main.Humidity,
	}, nil
}
