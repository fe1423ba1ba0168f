package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLookupCountsByRouteAndOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	collector.ObserveLookup("weather", "ok")
	collector.ObserveLookup("weather", "ok")
	collector.ObserveLookup("weather", "validation_error")

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Lookups.WithLabelValues("weather", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Lookups.WithLabelValues("weather", "validation_error")))
}

func TestObserveUpstreamRecordsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	collector.ObserveUpstream("restcountries", 120*time.Millisecond)

	assert.Equal(t, uint64(1), histogramSampleCount(t, reg, "city_explorer_upstream_request_duration_seconds", "restcountries"))
}

func TestNewCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	second.ObserveLookup("wikipedia", "ok")

	assert.Same(t, first.Lookups, second.Lookups)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Lookups.WithLabelValues("wikipedia", "ok")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var collector *Collector

	assert.NotPanics(t, func() {
		collector.ObserveLookup("weather", "ok")
		collector.ObserveUpstream("openweathermap", time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)
	collector.ObserveLookup("countryInfo", "transport_error")
	collector.ObserveUpstream("wikipedia", 10*time.Millisecond)

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `city_explorer_lookups_total{outcome="transport_error",route="countryInfo"} 1`)
	assert.Contains(t, rr.Body.String(), "city_explorer_upstream_request_duration_seconds")
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name, upstream string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	require.NoError(t, err)
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if hasLabel(m.GetLabel(), "upstream", upstream) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func hasLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, lp := range labels {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
