package domain

// WikipediaQuery is the body accepted by POST /cityWikipediaPage.
// The title is forwarded as-is, an empty name included.
type WikipediaQuery struct {
	CityName string `json:"cityName"`
}

// WikipediaResult carries the canonical page URL. URL is empty (and omitted)
// when the selected page has no fullurl, e.g. the missing-page sentinel.
type WikipediaResult struct {
	URL string `json:"url,omitempty"`
}
