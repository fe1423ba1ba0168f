package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cityexplorer/backend/internal/domain"
	"github.com/cityexplorer/backend/internal/observability"
)

const weatherFailureMessage = "Failed to fetch weather data"

// WeatherService proxies current-weather lookups to OpenWeatherMap
type WeatherService struct {
	endpoint string
	apiKey   string
	upstream upstream
}

// NewWeatherService creates a new weather service
func NewWeatherService(endpoint, apiKey string, timeout time.Duration, metrics *observability.Collector) *WeatherService {
	return &WeatherService{
		endpoint: endpoint,
		apiKey:   apiKey,
		upstream: newUpstream("openweathermap", timeout, metrics),
	}
}

// statusCode decodes the "cod" field, which OpenWeatherMap sends as a
// number on success and as a numeric string on failure.
type statusCode int

func (s *statusCode) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("cod %q: %w", b, err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("cod %q: %w", b, err)
	}
	*s = statusCode(v)
	return nil
}

// OpenWeatherResponse represents the OpenWeatherMap API response.
// Objects are pointers so that a missing section is told apart from zero values.
type OpenWeatherResponse struct {
	Cod     statusCode `json:"cod"`
	Message string     `json:"message"`
	Coord   *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Country string `json:"country"`
	} `json:"sys"`
	Rain *struct {
		OneHour *float64 `json:"1h"`
	} `json:"rain"`
}

// GetWeather fetches current conditions for a city.
// Errors are always *domain.LookupError.
func (s *WeatherService) GetWeather(ctx context.Context, q domain.WeatherQuery) (domain.WeatherSummary, error) {
	if err := q.Validate(); err != nil {
		return domain.WeatherSummary{}, err
	}

	summary, err := s.fetchWeather(ctx, strings.TrimSpace(q.City))
	if err != nil {
		return domain.WeatherSummary{}, domain.AsLookupError(err, weatherFailureMessage)
	}
	return summary, nil
}

func (s *WeatherService) fetchWeather(ctx context.Context, city string) (domain.WeatherSummary, error) {
	endpoint, err := s.buildURL(city)
	if err != nil {
		return domain.WeatherSummary{}, err
	}

	// The HTTP status is not consulted: the body's cod field carries the outcome.
	_, body, err := s.upstream.fetch(ctx, endpoint)
	if err != nil {
		return domain.WeatherSummary{}, err
	}

	var owResp OpenWeatherResponse
	if err := json.Unmarshal(body, &owResp); err != nil {
		return domain.WeatherSummary{}, fmt.Errorf("weather: failed to decode response: %w", err)
	}

	if owResp.Cod != 0 && owResp.Cod != 200 {
		if owResp.Cod < 100 || owResp.Cod > 599 {
			return domain.WeatherSummary{}, fmt.Errorf("weather: upstream reported invalid status %d", owResp.Cod)
		}
		return domain.WeatherSummary{}, domain.NewUpstreamError(int(owResp.Cod), owResp.Message)
	}

	return toWeatherSummary(owResp)
}

func (s *WeatherService) buildURL(city string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("weather: invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func toWeatherSummary(owResp OpenWeatherResponse) (domain.WeatherSummary, error) {
	if owResp.Main == nil || owResp.Coord == nil || owResp.Wind == nil || owResp.Sys == nil {
		return domain.WeatherSummary{}, errors.New("weather: response is missing required sections")
	}
	if len(owResp.Weather) == 0 {
		return domain.WeatherSummary{}, errors.New("weather: response has no weather conditions")
	}

	summary := domain.WeatherSummary{
		Temperature: owResp.Main.Temp,
		Description: owResp.Weather[0].Description,
		Icon:        owResp.Weather[0].Icon,
		Coordinates: domain.Coordinates{
			Latitude:  owResp.Coord.Lat,
			Longitude: owResp.Coord.Lon,
		},
		FeelsLike:   owResp.Main.FeelsLike,
		Humidity:    owResp.Main.Humidity,
		Pressure:    owResp.Main.Pressure,
		WindSpeed:   owResp.Wind.Speed,
		CountryCode: owResp.Sys.Country,
	}

	if owResp.Rain != nil {
		summary.RainVolume = owResp.Rain.OneHour
	}

	return summary, nil
}
