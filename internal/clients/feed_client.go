package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

// FeedClient reads reviews from an RSS or Atom feed whose URL embeds the
// product name.
type FeedClient struct {
	URLTemplate string
	parser      *gofeed.Parser
}

func NewFeedClient(cfg config.FeedConfig, timeout time.Duration) *FeedClient {
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = USER_AGENT

	return &FeedClient{URLTemplate: cfg.URLTemplate, parser: parser}
}

func (f *FeedClient) Name() string { return "feed" }

func (f *FeedClient) FeedURL(productName string) string {
	return fmt.Sprintf(f.URLTemplate, url.QueryEscape(productName))
}

func (f *FeedClient) FetchReviews(ctx context.Context, productName string) ([]models.RawReview, error) {
	feedURL := f.FeedURL(productName)

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		slog.Error("[FeedClient] Failed to read feed",
			slog.String("url", feedURL),
			slog.String("error", err.Error()))

		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &apperrors.SourceError{
				Source:     f.Name(),
				StatusCode: httpErr.StatusCode,
				Message:    "Review feed failed: " + httpErr.Status,
				Err:        err,
			}
		}
		return nil, &apperrors.SourceError{Source: f.Name(), Err: err}
	}

	source := feed.Title
	if source == "" {
		source = sourceFromLink(feedURL)
	}

	reviews := make([]models.RawReview, 0, len(feed.Items))
	for _, item := range feed.Items {
		text := HTMLToText(item.Description)
		if text == "" {
			text = HTMLToText(item.Content)
		}
		if text == "" {
			text = strings.TrimSpace(item.Title)
		}
		reviews = append(reviews, models.RawReview{
			Title:  item.Title,
			Link:   item.Link,
			Source: source,
			Text:   text,
		})
	}

	slog.Info("[FeedClient] Feed read",
		slog.String("product", productName),
		slog.Int("items", len(reviews)))
	return reviews, nil
}
