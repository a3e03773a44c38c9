package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// CommitPolicy bounds how hard a handled request's offset is retried. Zero
// values fall back to MAX_RETRIES and RETRY_DELAY.
type CommitPolicy struct {
	Retries int
	Backoff time.Duration
}

func (p CommitPolicy) normalized() CommitPolicy {
	if p.Retries <= 0 {
		p.Retries = MAX_RETRIES
	}
	if p.Backoff <= 0 {
		p.Backoff = RETRY_DELAY
	}
	return p
}

// OffsetCommitter is the part of *kafka.Consumer the commit handler needs.
type OffsetCommitter interface {
	CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error)
}

type KafkaCommitHandler struct {
	committer OffsetCommitter
	ctx       context.Context
	policy    CommitPolicy
}

func NewCommitHandler(ctx context.Context, committer OffsetCommitter, policy CommitPolicy) *KafkaCommitHandler {
	return &KafkaCommitHandler{
		committer: committer,
		ctx:       ctx,
		policy:    policy.normalized(),
	}
}

// Commit stores msg's offset, backing off linearly between attempts. It gives
// up early when ctx ends or every broker is unreachable.
func (ch *KafkaCommitHandler) Commit(msg *kafka.Message) error {
	if ch.committer == nil {
		return errors.New("[KafkaCommitHandler] Kafka consumer has not been initialized")
	}

	var lastErr error
	for attempt := 1; attempt <= ch.policy.Retries; attempt++ {
		_, err := ch.committer.CommitMessage(msg)
		if err == nil {
			slog.Debug("[KafkaCommitHandler] Committed request offset",
				slog.String("topic", topicOf(msg)),
				slog.Int("partition", int(msg.TopicPartition.Partition)),
				slog.String("offset", msg.TopicPartition.Offset.String()),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrAllBrokersDown {
			slog.Error("[KafkaCommitHandler] All Kafka brokers are down. Aborting commit",
				slog.String("topic", topicOf(msg)))
			return err
		}
		if attempt == ch.policy.Retries {
			break
		}

		wait := ch.policy.Backoff * time.Duration(attempt)
		slog.Warn("[KafkaCommitHandler] Failed to commit offset, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", ch.policy.Retries),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()))

		select {
		case <-ch.ctx.Done():
			slog.Warn("[KafkaCommitHandler] Context canceled, stopping commit")
			return ch.ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("[KafkaCommitHandler] failed to commit offset after %d attempts: %w", ch.policy.Retries, lastErr)
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}
