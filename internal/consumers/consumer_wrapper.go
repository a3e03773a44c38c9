package consumers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/swotflow/internal/clients/kafka_client"
)

const HEALTH_WAIT_INTERVAL = time.Second

type gatedConsumerFunc func(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool)

// ConsumerWrapper binds health flags to a consumer loop so it can be
// registered as a plain kafka_client.ConsumerFunc.
type ConsumerWrapper struct {
	fn     gatedConsumerFunc
	health []*atomic.Bool
}

func WrapConsumer(fn gatedConsumerFunc, health ...*atomic.Bool) ConsumerWrapper {
	return ConsumerWrapper{
		fn:     fn,
		health: health,
	}
}

func (cw ConsumerWrapper) WithHealthCheck(health *atomic.Bool) ConsumerWrapper {
	cw.health = append(cw.health, health)
	return cw
}

func (cw ConsumerWrapper) Handler() kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		cw.fn(ctx, consumer, cw.health...)
	}
}

// waitHealthy blocks until every flag is set. It returns false if ctx ends
// first.
func waitHealthy(ctx context.Context, component string, health ...*atomic.Bool) bool {
	logged := false
	for {
		if allHealthy(health) {
			return true
		}
		if !logged {
			slog.Warn("[" + component + "] Dependencies not ready - pausing consumption")
			logged = true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(HEALTH_WAIT_INTERVAL):
		}
	}
}

func allHealthy(health []*atomic.Bool) bool {
	for _, h := range health {
		if h != nil && !h.Load() {
			return false
		}
	}
	return true
}
