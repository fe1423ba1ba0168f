package service

import (
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

const countryFailureMessage = "Internal server error"

// CountryService proxies alpha-code lookups to REST Countries
type CountryService struct {
	endpoint string
	upstream upstream
}

// NewCountryService creates a new country service
func NewCountryService(endpoint string, timeout time.Duration, metrics *observability.Collector) *CountryService {
	return &CountryService{
		endpoint: strings.TrimRight(endpoint, "/"),
		upstream: newUpstream("restcountries", timeout, metrics),
	}
}

// RestCountry is the subset of a REST Countries v3.1 record we read.
// Languages stays raw so its key order survives decoding.
type RestCountry struct {
	Name *struct {
		Common string `json:"common"`
	} `json:"name"`
	Area      float64         `json:"area"`
	Region    string          `json:"region"`
	Languages json.RawMessage `json:"languages"`
	Flags     *struct {
		PNG string `json:"png"`
	} `json:"flags"`
	LatLng []float64 `json:"latlng"`
}

// GetCountryInfo fetches the summary for an alpha code.
// Errors are always *domain.LookupError.
func (s *CountryService) GetCountryInfo(ctx context.Context, q domain.CountryQuery) (domain.CountrySummary, error) {
	if err := q.Validate(); err != nil {
		return domain.CountrySummary{}, err
	}

	summary, err := s.fetchCountry(ctx, strings.TrimSpace(q.CountryCode))
	if err != nil {
		return domain.CountrySummary{}, domain.AsLookupError(err, countryFailureMessage)
	}
	return summary, nil
}

func (s *CountryService) fetchCountry(ctx context.Context, code string) (domain.CountrySummary, error) {
	status, body, err := s.upstream.fetch(ctx, s.endpoint+"/"+url.PathEscape(code))
	if err != nil {
		return domain.CountrySummary{}, err
	}
	if status < 200 || status > 299 {
		return domain.CountrySummary{}, fmt.Errorf("country: unexpected status %d", status)
	}

	var records []RestCountry
	if err := json.Unmarshal(body, &records); err != nil {
		return domain.CountrySummary{}, fmt.Errorf("country: failed to decode response: %w", err)
	}

	// Partial alpha codes may match several countries; the first record wins.
	if len(records) == 0 {
		return domain.CountrySummary{}, errors.New("country: empty result")
	}

	return toCountrySummary(records[0])
}

func toCountrySummary(rc RestCountry) (domain.CountrySummary, error) {
	if rc.Name == nil || rc.Flags == nil {
		return domain.CountrySummary{}, errors.New("country: record is missing name or flags")
	}

	languages, err := joinLanguages(rc.Languages)
	if err != nil {
		return domain.CountrySummary{}, err
	}

	return domain.CountrySummary{
		Country:   rc.Name.Common,
		Area:      rc.Area,
		Region:    rc.Region,
		Languages: languages,
		Flag:      rc.Flags.PNG,
		LatLng:    rc.LatLng,
	}, nil
}

// joinLanguages joins the names of a code→name object with ", ",
// keeping the key order of the upstream document.
func joinLanguages(raw json.RawMessage) (string, error) {
	names, err := orderedStringValues(raw)
	if err != nil {
		return "", fmt.Errorf("country: invalid languages: %w", err)
	}
	return strings.Join(names, ", "), nil
}
