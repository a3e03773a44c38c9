package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/swotflow/internal/sentiment"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// ModelHandle is the part of *sentiment.Lazy the health checks use.
type ModelHandle interface {
	Get(ctx context.Context) (sentiment.Classifier, error)
	Ready() bool
}

// WarmClassifier loads the model in the background so the first request does
// not pay for the download. Failed loads are retried every interval until ctx
// ends; ready flips once the model is usable.
func WarmClassifier(ctx context.Context, model ModelHandle, ready *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}

	for attempt := 1; ; attempt++ {
		start := time.Now()
		_, err := model.Get(ctx)
		if err == nil {
			ready.Store(true)
			slog.Info("[HealthCheck] Sentiment model warmed",
				slog.Int("attempt", attempt),
				slog.Duration("elapsed", time.Since(start)))
			return
		}
		slog.Warn("[HealthCheck] Sentiment model failed to load, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// MonitorClassifierHealth mirrors model.Ready into healthy until ctx ends.
func MonitorClassifierHealth(ctx context.Context, model ModelHandle, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := model.Ready()
			if healthy.Swap(isHealthy) && !isHealthy {
				slog.Warn("[HealthCheck] Sentiment model is no longer loaded")
			}
		}
	}
}
