package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityexplorer/backend/internal/domain"
)

const franceRecord = `[{
	"name": {"common": "France", "official": "French Republic"},
	"area": 551695,
	"region": "Europe",
	"languages": {"fra": "French"},
	"flags": {"png": "https://flagcdn.com/w320/fr.png", "svg": "https://flagcdn.com/fr.svg"},
	"latlng": [46, 2]
}]`

// Key order deliberately differs from alphabetical order
const switzerlandRecord = `[{
	"name": {"common": "Switzerland"},
	"area": 41284,
	"region": "Europe",
	"languages": {"roh": "Romansh", "fra": "French", "gsw": "Swiss German", "ita": "Italian"},
	"flags": {"png": "https://flagcdn.com/w320/ch.png"},
	"latlng": [47, 8]
}, {
	"name": {"common": "Not Selected"},
	"languages": {},
	"flags": {"png": "x"}
}]`

func TestCountryServiceMapsFirstRecord(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, franceRecord)
	svc := NewCountryService(upstream.URL+"/v3.1/alpha/", time.Second, nil)

	summary, err := svc.GetCountryInfo(context.Background(), domain.CountryQuery{CountryCode: "FR"})
	require.NoError(t, err)

	assert.Equal(t, domain.CountrySummary{
		Country:   "France",
		Area:      551695,
		Region:    "Europe",
		Languages: "French",
		Flag:      "https://flagcdn.com/w320/fr.png",
		LatLng:    []float64{46, 2},
	}, summary)
	assert.Equal(t, "/v3.1/alpha/FR", upstream.Path())
}

func TestCountryServiceJoinsLanguagesInDocumentOrder(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, switzerlandRecord)
	svc := NewCountryService(upstream.URL, time.Second, nil)

	summary, err := svc.GetCountryInfo(context.Background(), domain.CountryQuery{CountryCode: "CH"})
	require.NoError(t, err)

	assert.Equal(t, "Switzerland", summary.Country)
	assert.Equal(t, "Romansh, French, Swiss German, Italian", summary.Languages)
}

func TestCountryServiceEmptyLanguages(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, `[{"name": {"common": "Antarctica"}, "languages": {}, "flags": {"png": "aq.png"}}]`)
	svc := NewCountryService(upstream.URL, time.Second, nil)

	summary, err := svc.GetCountryInfo(context.Background(), domain.CountryQuery{CountryCode: "AQ"})
	require.NoError(t, err)

	assert.Equal(t, "", summary.Languages)
	assert.Nil(t, summary.LatLng)
}

func TestCountryServiceRejectsBlankCodeWithoutCalling(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, franceRecord)
	svc := NewCountryService(upstream.URL, time.Second, nil)

	_, err := svc.GetCountryInfo(context.Background(), domain.CountryQuery{})
	assertLookupError(t, err, domain.KindValidation, http.StatusBadRequest, "Country code is required")

	assert.Zero(t, upstream.Calls())
}

func TestCountryServiceCollapsesFailures(t *testing.T) {
	examples := map[string]struct {
		Status int
		Body   string
	}{
		"not found":          {Status: http.StatusNotFound, Body: `{"status": 404, "message": "Not Found"}`},
		"server error":       {Status: http.StatusBadGateway, Body: ``},
		"empty array":        {Status: http.StatusOK, Body: `[]`},
		"object not array":   {Status: http.StatusOK, Body: `{"name": {"common": "France"}}`},
		"missing languages":  {Status: http.StatusOK, Body: `[{"name": {"common": "X"}, "flags": {"png": "x"}}]`},
		"null languages":     {Status: http.StatusOK, Body: `[{"name": {"common": "X"}, "languages": null, "flags": {"png": "x"}}]`},
		"non string lang":    {Status: http.StatusOK, Body: `[{"name": {"common": "X"}, "languages": {"a": 1}, "flags": {"png": "x"}}]`},
		"missing flags":      {Status: http.StatusOK, Body: `[{"name": {"common": "X"}, "languages": {"fra": "French"}}]`},
		"missing name":       {Status: http.StatusOK, Body: `[{"languages": {"fra": "French"}, "flags": {"png": "x"}}]`},
		"truncated document": {Status: http.StatusOK, Body: `[{"name": {"common": "X"`},
	}

	for name, example := range examples {
		t.Run(name, func(t *testing.T) {
			upstream := newFakeUpstream(t, example.Status, example.Body)
			svc := NewCountryService(upstream.URL, time.Second, nil)

			_, err := svc.GetCountryInfo(context.Background(), domain.CountryQuery{CountryCode: "FR"})
			assertLookupError(t, err, domain.KindTransport, http.StatusInternalServerError, "Internal server error")
		})
	}
}

func TestCountryServiceEscapesCode(t *testing.T) {
	upstream := newFakeUpstream(t, http.StatusOK, franceRecord)
	svc := NewCountryService(upstream.URL, time.Second, nil)

	_, err := svc.GetCountryInfo(context.Background(), domain.CountryQuery{CountryCode: "fr/../x"})
	require.NoError(t, err)

	assert.Equal(t, "/fr%2F..%2Fx", upstream.Path())
}
