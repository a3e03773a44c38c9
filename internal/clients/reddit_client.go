package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"
)

// RedditClient searches Reddit posts with application-only OAuth.
type RedditClient struct {
	Config  *clientcredentials.Config
	APIURL  string
	Limit   int
	timeout time.Duration

	mu     sync.Mutex
	client *http.Client
}

func NewRedditClient(cfg config.RedditConfig, timeout time.Duration) *RedditClient {
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = REDDIT_AUTH_URL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = REDDIT_API_URL
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 25
	}

	rc := &RedditClient{
		Config: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		APIURL:  strings.TrimSuffix(apiURL, "/"),
		Limit:   limit,
		timeout: timeout,
	}
	rc.RefreshClient()
	return rc
}

func (rc *RedditClient) Name() string { return "reddit" }

// RefreshClient drops the cached token by building a new OAuth client.
func (rc *RedditClient) RefreshClient() {
	base := &http.Client{Timeout: rc.timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	client := rc.Config.Client(ctx)
	client.Timeout = rc.timeout

	rc.mu.Lock()
	rc.client = client
	rc.mu.Unlock()
}

func (rc *RedditClient) httpClient() *http.Client {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.client
}

func (rc *RedditClient) FetchReviews(ctx context.Context, productName string) ([]models.RawReview, error) {
	body, err := rc.search(ctx, productName, true)
	if err != nil {
		return nil, err
	}

	var listing models.RedditAPIResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, &apperrors.SourceError{Source: rc.Name(), Message: "Reddit API returned invalid JSON", Err: err}
	}

	reviews := make([]models.RawReview, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		text := strings.TrimSpace(post.Selftext)
		if text == "" {
			text = post.Title
		}
		reviews = append(reviews, models.RawReview{
			Title:  post.Title,
			Link:   "https://www.reddit.com" + post.Permalink,
			Source: "Reddit",
			Text:   text,
		})
	}

	slog.Info("[RedditClient] Search completed",
		slog.String("product", productName),
		slog.Int("posts", len(reviews)))
	return reviews, nil
}

func (rc *RedditClient) search(ctx context.Context, productName string, refreshOnUnauthorized bool) ([]byte, error) {
	params := url.Values{}
	params.Set("q", productName+" review")
	params.Set("sort", "relevance")
	params.Set("type", "link")
	params.Set("limit", strconv.Itoa(rc.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rc.APIURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := rc.httpClient().Do(req)
	if err != nil {
		slog.Error("[RedditClient] Request failed", slog.String("error", err.Error()))
		return nil, &apperrors.SourceError{Source: rc.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.SourceError{Source: rc.Name(), StatusCode: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized && refreshOnUnauthorized:
		slog.Warn("[RedditClient] Token rejected - refreshing and retrying once")
		rc.RefreshClient()
		return rc.search(ctx, productName, false)
	default:
		return nil, &apperrors.SourceError{
			Source:     rc.Name(),
			StatusCode: resp.StatusCode,
			Message:    "Reddit API failed: " + string(body),
		}
	}
}
