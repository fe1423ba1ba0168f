package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cityexplorer/backend/internal/observability"
)

const (
	userAgent       = "CityExplorer/1.0 (+https://github.com/cityexplorer/backend)"
	maxUpstreamBody = 4 << 20
)

// upstream issues single GET requests against one third-party API
type upstream struct {
	name       string
	httpClient *http.Client
	metrics    *observability.Collector
}

func newUpstream(name string, timeout time.Duration, metrics *observability.Collector) upstream {
	return upstream{
		name: name,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
	}
}

// fetch performs one GET and returns the status code with the whole body.
// The status is not interpreted here; each proxy has its own rule for it.
func (u upstream) fetch(ctx context.Context, endpoint string) (int, []byte, error) {
	start := time.Now()
	defer func() {
		u.metrics.ObserveUpstream(u.name, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: failed to create request: %w", u.name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: request failed: %w", u.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s: failed to read response: %w", u.name, err)
	}

	return resp.StatusCode, body, nil
}
