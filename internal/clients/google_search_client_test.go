package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/apperrors"
)

const googleFixture = `{
  "items": [
    {
      "title": "Widget X - Amazon.in",
      "link": "https://www.amazon.in/widget-x/dp/B0",
      "snippet": "Great price and quality",
      "pagemap": {
        "offer": [{"price": "1999", "pricecurrency": "INR"}],
        "aggregaterating": [{"ratingvalue": "4.2"}]
      }
    },
    {
      "title": "Widget X | Flipkart",
      "link": "https://www.flipkart.com/widget-x/p/itm",
      "snippet": "",
      "htmlSnippet": "Delivery was <b>late</b> &amp; slow"
    },
    {
      "title": "Widget X listing",
      "link": "https://www.flipkart.com/widget-x/p/itm2"
    }
  ]
}`

func newTestGoogleClient(url string) *GoogleSearchClient {
	return NewGoogleSearchClient(config.GoogleConfig{
		APIKey:         "key-123",
		SearchEngineID: "cx-456",
		Endpoint:       url,
		Sites:          []string{"amazon.in", "flipkart.com"},
	}, time.Second)
}

func TestGoogleFetchReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Widget X site:amazon.in OR site:flipkart.com" {
			t.Errorf("unexpected query %q", q.Get("q"))
		}
		if q.Get("key") != "key-123" || q.Get("cx") != "cx-456" {
			t.Errorf("credentials not forwarded: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(googleFixture))
	}))
	defer server.Close()

	reviews, err := newTestGoogleClient(server.URL).FetchReviews(context.Background(), "Widget X")
	if err != nil {
		t.Fatalf("FetchReviews() error = %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want 3", len(reviews))
	}

	first := reviews[0]
	if first.Source != "Amazon" || first.Text != "Great price and quality" {
		t.Errorf("first review = %+v", first)
	}
	if first.Price != "1999" || first.Rating != "4.2" {
		t.Errorf("pagemap fields not read: price=%q rating=%q", first.Price, first.Rating)
	}

	second := reviews[1]
	if second.Source != "Flipkart" {
		t.Errorf("second source = %q, want Flipkart", second.Source)
	}
	if second.Text != "Delivery was late & slow" {
		t.Errorf("htmlSnippet fallback = %q", second.Text)
	}

	if reviews[2].Text != "" {
		t.Errorf("item without snippet should have empty text, got %q", reviews[2].Text)
	}
}

func TestGoogleFetchReviewsNoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchInformation": {"totalResults": "0"}}`))
	}))
	defer server.Close()

	reviews, err := newTestGoogleClient(server.URL).FetchReviews(context.Background(), "Nothing")
	if err != nil {
		t.Fatalf("FetchReviews() error = %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("got %d reviews, want 0", len(reviews))
	}
}

func TestGoogleFetchReviewsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	_, err := newTestGoogleClient(server.URL).FetchReviews(context.Background(), "Widget X")
	if !errors.Is(err, apperrors.ErrSource) {
		t.Fatalf("error = %v, want ErrSource", err)
	}

	var srcErr *apperrors.SourceError
	if !errors.As(err, &srcErr) || srcErr.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected error %#v", err)
	}
	if !strings.HasPrefix(err.Error(), "Google Search API failed: ") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("message should carry the upstream body, got %q", err.Error())
	}
}

func TestGoogleFetchReviewsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestGoogleClient(url).FetchReviews(context.Background(), "Widget X")
	if !errors.Is(err, apperrors.ErrSource) {
		t.Errorf("error = %v, want ErrSource", err)
	}
}

func TestSourceFromLink(t *testing.T) {
	tests := map[string]string{
		"https://www.amazon.in/dp/B0":     "Amazon",
		"https://m.amazon.in/dp/B0X":      "Amazon",
		"https://smile.amazon.com/dp/B0X": "Amazon",
		"https://WWW.AMAZON.IN/dp/B0":     "Amazon",
		"https://flipkart.com/p/itm":      "Flipkart",
		"https://dl.flipkart.com/p/itm1":  "Flipkart",
		"":                                "Flipkart",
	}
	for in, want := range tests {
		if got := sourceFromLink(in); got != want {
			t.Errorf("sourceFromLink(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetPreviewKeepsRunesWhole(t *testing.T) {
	body := []byte(strings.Repeat("₹", PREVIEW_RUNES+10))
	got := getPreview(body).Value.String()
	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != PREVIEW_RUNES {
		t.Errorf("preview has %d runes, want %d", n, PREVIEW_RUNES)
	}

	short := getPreview([]byte("quota exceeded")).Value.String()
	if short != "quota exceeded" {
		t.Errorf("short preview = %q", short)
	}
}
