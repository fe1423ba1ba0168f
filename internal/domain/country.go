package domain

import "strings"

// CountryQuery is the body accepted by POST /countryInfo
type CountryQuery struct {
	CountryCode string `json:"countryCode"`
}

// Validate rejects a blank country code
func (q CountryQuery) Validate() error {
	if strings.TrimSpace(q.CountryCode) == "" {
		return NewValidationError("Country code is required")
	}
	return nil
}

// CountrySummary is the reduced country record shown next to the weather card
type CountrySummary struct {
	Country   string    `json:"country"`
	Area      float64   `json:"area"`
	Region    string    `json:"region"`
	Languages string    `json:"languages"`
	Flag      string    `json:"flag"`
	LatLng    []float64 `json:"latlng"`
}
