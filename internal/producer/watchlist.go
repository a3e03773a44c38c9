package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	ENQUEUE_RETRIES          = 3
	ENQUEUE_BACKOFF          = 2 * time.Second
	DEFAULT_REQUEST_INTERVAL = 6 * time.Hour
)

type RequestPublisher interface {
	PublishRequest(ctx context.Context, productName string) error
}

// Watchlist periodically asks the analysis consumers to refresh a fixed set
// of products.
type Watchlist struct {
	publisher RequestPublisher
	products  []string
	backoff   time.Duration
}

func NewWatchlist(publisher RequestPublisher, products []string) *Watchlist {
	return &Watchlist{publisher: publisher, products: normalize(products), backoff: ENQUEUE_BACKOFF}
}

func (w *Watchlist) Products() []string { return w.products }

// Enqueue publishes one request per product and reports how many succeeded.
// A product that still fails after ENQUEUE_RETRIES attempts is skipped.
func (w *Watchlist) Enqueue(ctx context.Context) (int, error) {
	var errs []error
	enqueued := 0

	for _, product := range w.products {
		if err := w.publishWithRetries(ctx, product); err != nil {
			if ctx.Err() != nil {
				return enqueued, ctx.Err()
			}
			slog.Error("[Watchlist] Failed to enqueue product",
				slog.String("product", product),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		enqueued++
	}

	slog.Info("[Watchlist] Enqueue pass finished",
		slog.Int("enqueued", enqueued),
		slog.Int("products", len(w.products)))
	return enqueued, errors.Join(errs...)
}

func (w *Watchlist) publishWithRetries(ctx context.Context, product string) error {
	var err error
	for attempt := 1; attempt <= ENQUEUE_RETRIES; attempt++ {
		if err = w.publisher.PublishRequest(ctx, product); err == nil {
			return nil
		}
		slog.Warn("[Watchlist] Publish failed, retrying...",
			slog.String("product", product),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.backoff):
		}
	}
	return fmt.Errorf("%q not enqueued after %d attempts: %w", product, ENQUEUE_RETRIES, err)
}

// Run enqueues immediately and then on every tick until ctx ends.
func (w *Watchlist) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		slog.Warn("[Watchlist] Non-positive request interval, using default",
			slog.Duration("interval", interval),
			slog.Duration("default", DEFAULT_REQUEST_INTERVAL))
		interval = DEFAULT_REQUEST_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.Enqueue(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("[Watchlist] Some products were not enqueued", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			slog.Info("[Watchlist] Stopping")
			return
		case <-ticker.C:
		}
	}
}

// normalize trims names and drops blanks and case-insensitive duplicates,
// keeping first-seen order.
func normalize(products []string) []string {
	seen := make(map[string]bool, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
