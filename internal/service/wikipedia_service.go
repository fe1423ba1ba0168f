package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cityexplorer/backend/internal/domain"
	"github.com/cityexplorer/backend/internal/observability"
)

const wikipediaFailureMessage = "Failed to fetch Wikipedia page URL"

// WikipediaService resolves a title to its canonical page URL through the MediaWiki query API
type WikipediaService struct {
	endpoint string
	upstream upstream
}

// NewWikipediaService creates a new Wikipedia service
func NewWikipediaService(endpoint string, timeout time.Duration, metrics *observability.Collector) *WikipediaService {
	return &WikipediaService{
		endpoint: endpoint,
		upstream: newUpstream("wikipedia", timeout, metrics),
	}
}

type wikiQueryResponse struct {
	Query *struct {
		Pages json.RawMessage `json:"pages"`
	} `json:"query"`
}

type wikiPage struct {
	FullURL string `json:"fullurl"`
}

// GetPageURL looks up the page for q.CityName. The title is not validated and
// a missing-page result is passed through as a URL-less response.
// Errors are always *domain.LookupError.
func (s *WikipediaService) GetPageURL(ctx context.Context, q domain.WikipediaQuery) (domain.WikipediaResult, error) {
	result, err := s.fetchPage(ctx, q.CityName)
	if err != nil {
		return domain.WikipediaResult{}, domain.AsLookupError(err, wikipediaFailureMessage)
	}
	return result, nil
}

func (s *WikipediaService) fetchPage(ctx context.Context, title string) (domain.WikipediaResult, error) {
	endpoint, err := s.buildURL(title)
	if err != nil {
		return domain.WikipediaResult{}, err
	}

	_, body, err := s.upstream.fetch(ctx, endpoint)
	if err != nil {
		return domain.WikipediaResult{}, err
	}

	var wr wikiQueryResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return domain.WikipediaResult{}, fmt.Errorf("wikipedia: failed to decode response: %w", err)
	}
	if wr.Query == nil {
		return domain.WikipediaResult{}, errors.New("wikipedia: response has no query section")
	}

	keys, err := objectKeys(wr.Query.Pages)
	if err != nil {
		return domain.WikipediaResult{}, fmt.Errorf("wikipedia: invalid pages: %w", err)
	}
	ordered := orderPageIDs(keys)
	if len(ordered) == 0 {
		return domain.WikipediaResult{}, errors.New("wikipedia: no pages returned")
	}

	var pages map[string]wikiPage
	if err := json.Unmarshal(wr.Query.Pages, &pages); err != nil {
		return domain.WikipediaResult{}, fmt.Errorf("wikipedia: failed to decode pages: %w", err)
	}

	return domain.WikipediaResult{URL: pages[ordered[0]].FullURL}, nil
}

func (s *WikipediaService) buildURL(title string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("wikipedia: invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("titles", title)
	q.Set("prop", "info")
	q.Set("inprop", "url")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
