package models

type GoogleSearchResponse struct {
	Items []GoogleSearchItem `json:"items"`
}

type GoogleSearchItem struct {
	Title       string        `json:"title"`
	Link        string        `json:"link"`
	Snippet     string        `json:"snippet"`
	HTMLSnippet string        `json:"htmlSnippet"`
	Pagemap     GooglePagemap `json:"pagemap"`
}

// GooglePagemap holds the structured data Google extracted from the page.
// Values are loosely typed upstream.
type GooglePagemap struct {
	Offer           []map[string]any `json:"offer"`
	AggregateRating []map[string]any `json:"aggregaterating"`
}
