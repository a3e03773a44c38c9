package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

const GOOGLE_SEARCH_ENDPOINT = "https://www.googleapis.com/customsearch/v1"

// GoogleSearchClient reads review snippets from the Custom Search JSON API.
type GoogleSearchClient struct {
	Client         *http.Client
	APIKey         string
	SearchEngineID string
	Endpoint       string
	Sites          []string
}

func NewGoogleSearchClient(cfg config.GoogleConfig, timeout time.Duration) *GoogleSearchClient {
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = GOOGLE_SEARCH_ENDPOINT
	}
	return &GoogleSearchClient{
		Client:         &http.Client{Timeout: timeout},
		APIKey:         cfg.APIKey,
		SearchEngineID: cfg.SearchEngineID,
		Endpoint:       endpoint,
		Sites:          cfg.Sites,
	}
}

func (g *GoogleSearchClient) Name() string { return "google" }

// Query builds "<product> site:a OR site:b".
func (g *GoogleSearchClient) Query(productName string) string {
	if len(g.Sites) == 0 {
		return productName
	}
	sites := make([]string, len(g.Sites))
	for i, s := range g.Sites {
		sites[i] = "site:" + s
	}
	return productName + " " + strings.Join(sites, " OR ")
}

func (g *GoogleSearchClient) FetchReviews(ctx context.Context, productName string) ([]models.RawReview, error) {
	params := url.Values{}
	params.Set("q", g.Query(productName))
	params.Set("key", g.APIKey)
	params.Set("cx", g.SearchEngineID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("[GoogleSearchClient] failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := g.Client.Do(req)
	if err != nil {
		slog.Error("[GoogleSearchClient] Request failed",
			slog.String("product", productName),
			slog.String("error", err.Error()))
		return nil, &apperrors.SourceError{Source: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.SourceError{Source: g.Name(), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[GoogleSearchClient] Search API returned an error",
			slog.Int("status", resp.StatusCode),
			getPreview(body))
		return nil, &apperrors.SourceError{
			Source:     g.Name(),
			StatusCode: resp.StatusCode,
			Message:    "Google Search API failed: " + string(body),
		}
	}

	var result models.GoogleSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &apperrors.SourceError{
			Source:     g.Name(),
			StatusCode: resp.StatusCode,
			Message:    "Google Search API returned invalid JSON",
			Err:        err,
		}
	}

	reviews := make([]models.RawReview, 0, len(result.Items))
	for _, item := range result.Items {
		reviews = append(reviews, googleItemToReview(item))
	}

	slog.Info("[GoogleSearchClient] Search completed",
		slog.String("product", productName),
		slog.Int("items", len(reviews)),
		slog.Duration("elapsed", time.Since(start)))
	return reviews, nil
}

func googleItemToReview(item models.GoogleSearchItem) models.RawReview {
	text := item.Snippet
	if strings.TrimSpace(text) == "" && item.HTMLSnippet != "" {
		text = HTMLToText(item.HTMLSnippet)
	}

	return models.RawReview{
		Title:  item.Title,
		Link:   item.Link,
		Source: sourceFromLink(item.Link),
		Price:  firstValue(item.Pagemap.Offer, "price"),
		Rating: firstValue(item.Pagemap.AggregateRating, "ratingvalue"),
		Text:   text,
	}
}

// sourceFromLink names the marketplace a result came from. Anything that is
// not an Amazon link is attributed to Flipkart, the only other site searched.
func sourceFromLink(link string) string {
	if strings.Contains(strings.ToLower(link), "amazon") {
		return "Amazon"
	}
	return "Flipkart"
}

func firstValue(entries []map[string]any, key string) string {
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}

func getPreview(respBody []byte) slog.Attr {
	raw := []rune(string(respBody))
	if len(raw) > PREVIEW_RUNES {
		raw = raw[:PREVIEW_RUNES]
	}
	return slog.String("raw_response", string(raw))
}
