package kafka_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/swotflow/internal/models"
)

// Publisher produces to a single topic and waits for each delivery report.
type Publisher struct {
	producer *kafka.Producer
	topic    string
}

func NewPublisher(cfg KafkaConfig) (*Publisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	go logProducerEvents(p)

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Publisher{producer: p, topic: cfg.Topic}, nil
}

// Publish announces a completed analysis.
func (p *Publisher) Publish(ctx context.Context, record *models.AnalysisRecord) error {
	msg, err := NewAnalysisMessage(p.topic, record)
	if err != nil {
		return err
	}
	if err := p.produce(ctx, msg); err != nil {
		return fmt.Errorf("[KafkaClient] failed to publish analysis %s: %w", record.ID, err)
	}

	slog.Info("[KafkaClient] Published analysis",
		slog.String("id", record.ID),
		slog.String("product", record.Product),
		slog.String("topic", p.topic))
	return nil
}

// PublishRequest enqueues an analysis request for a product.
func (p *Publisher) PublishRequest(ctx context.Context, productName string) error {
	msg, err := NewRequestMessage(p.topic, productName)
	if err != nil {
		return err
	}
	if err := p.produce(ctx, msg); err != nil {
		return fmt.Errorf("[KafkaClient] failed to enqueue request for %q: %w", productName, err)
	}

	slog.Info("[KafkaClient] Enqueued analysis request",
		slog.String("product", productName),
		slog.String("topic", p.topic))
	return nil
}

func (p *Publisher) produce(ctx context.Context, msg *kafka.Message) error {
	delivery := make(chan kafka.Event, 1)

	var err error
	for i := 0; i < 3; i++ {
		err = p.producer.Produce(msg, delivery)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
	}
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-delivery:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %v", ev)
		}
		return m.TopicPartition.Error
	}
}

func (p *Publisher) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

func logProducerEvents(p *kafka.Producer) {
	for ev := range p.Events() {
		if kerr, ok := ev.(kafka.Error); ok {
			slog.Error("[KafkaClient] Producer error", slog.String("error", kerr.Error()))
		}
	}
}
