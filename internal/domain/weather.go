package domain

import "strings"

// WeatherQuery is the body accepted by POST /weather
type WeatherQuery struct {
	City string `json:"city"`
}

// Validate rejects a blank city before any upstream call is made
func (q WeatherQuery) Validate() error {
	if strings.TrimSpace(q.City) == "" {
		return NewValidationError("City name is required")
	}
	return nil
}

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherSummary is the flattened current-conditions payload sent to the browser.
// RainVolume stays nil when the provider reports no rain for the last hour.
type WeatherSummary struct {
	Temperature float64     `json:"temperature"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Coordinates Coordinates `json:"coordinates"`
	FeelsLike   float64     `json:"feelsLike"`
	Humidity    int         `json:"humidity"`
	Pressure    int         `json:"pressure"`
	WindSpeed   float64     `json:"windSpeed"`
	CountryCode string      `json:"countryCode"`
	RainVolume  *float64    `json:"rainVolume"`
}
