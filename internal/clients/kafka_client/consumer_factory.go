package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type ConsumerFunc func(context.Context, *kafka.Consumer)

var (
	registryMu       sync.RWMutex
	consumerRegistry = make(map[string]ConsumerFunc)
)

// RegisterConsumer binds a handler to a topic. A later registration for the
// same topic replaces the earlier one.
func RegisterConsumer(topic string, consumerFunc ConsumerFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := consumerRegistry[topic]; exists {
		slog.Warn("[ConsumerFactory] Replacing consumer for topic", slog.String("topic", topic))
	}
	consumerRegistry[topic] = consumerFunc
}

func RegisteredTopics() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	topics := make([]string, 0, len(consumerRegistry))
	for topic := range consumerRegistry {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func lookupConsumer(topic string) (ConsumerFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := consumerRegistry[topic]
	return fn, ok
}

// StartConsumer runs the handler registered for cfg.Topic until ctx ends.
func StartConsumer(ctx context.Context, cfg KafkaConfig) error {
	consumerFunc, exists := lookupConsumer(cfg.Topic)
	if !exists {
		return fmt.Errorf("[ConsumerFactory] no consumer registered for topic %s (registered: %v)", cfg.Topic, RegisteredTopics())
	}

	consumer, err := NewConsumer(cfg)
	if err != nil {
		return fmt.Errorf("[ConsumerFactory] failed to initialize Kafka consumer: %w", err)
	}
	defer consumer.Close()

	start := time.Now()
	slog.Info("[ConsumerFactory] Starting consumer for topic...",
		slog.String("topic", cfg.Topic),
		slog.String("group", cfg.GroupID))
	consumerFunc(ctx, consumer)

	slog.Info("[ConsumerFactory] Consumer stopped",
		slog.String("topic", cfg.Topic),
		slog.Duration("uptime", time.Since(start)))
	return nil
}
