package consumers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/swotflow/internal/clients/kafka_client"
	"github.com/spacesedan/swotflow/internal/clients/kafka_client/utils"
	"github.com/spacesedan/swotflow/internal/models"
)

// AnalysisRunner is the service both the HTTP and the Kafka boundaries call.
type AnalysisRunner interface {
	Run(ctx context.Context, productName string) (*models.AnalysisRecord, error)
}

type AnalysisRequestConsumer struct {
	runner AnalysisRunner
	commit kafka_client.CommitPolicy
}

func NewAnalysisRequestConsumer(runner AnalysisRunner) *AnalysisRequestConsumer {
	return &AnalysisRequestConsumer{runner: runner}
}

// WithCommitPolicy sets how offset commits are retried.
func (c *AnalysisRequestConsumer) WithCommitPolicy(policy kafka_client.CommitPolicy) *AnalysisRequestConsumer {
	c.commit = policy
	return c
}

// HandleMessage runs one analysis request. A returned error is informational:
// the offset is committed either way so a poison message cannot stall the
// partition.
func (c *AnalysisRequestConsumer) HandleMessage(ctx context.Context, value []byte) error {
	product, err := utils.DecodeAnalysisRequest(value)
	if err != nil {
		return err
	}

	record, err := c.runner.Run(ctx, product)
	if err != nil {
		return fmt.Errorf("analysis for %q failed: %w", product, err)
	}

	slog.Info("[AnalysisRequestConsumer] Request handled",
		slog.String("product", product),
		slog.String("id", record.ID),
		slog.String("source", record.Source))
	return nil
}

// Start reads requests until ctx ends, pausing while any health flag is down.
func (c *AnalysisRequestConsumer) Start(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer, c.commit)

	slog.Info("[AnalysisRequestConsumer] Listening for messages...")

	for {
		if !waitHealthy(ctx, "AnalysisRequestConsumer", health...) {
			slog.Warn("[AnalysisRequestConsumer] Stopping consumer...")
			return
		}

		msg, err := iterator.Next()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				slog.Warn("[AnalysisRequestConsumer] Stopping consumer...")
				return
			}
			utils.HandleConsumerError(err)
			continue
		}

		if err := c.HandleMessage(ctx, msg.Value); err != nil {
			slog.Error("[AnalysisRequestConsumer] Failed to handle request",
				slog.String("key", string(msg.Key)),
				slog.String("error", err.Error()))
		}

		if err := committer.Commit(msg); err != nil {
			slog.Warn("[AnalysisRequestConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}
