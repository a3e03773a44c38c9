package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

// DecodeAnalysisRequest parses a request payload and returns the trimmed
// product name.
func DecodeAnalysisRequest(data []byte) (string, error) {
	var req models.AnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Warn("[KafkaUtils] Failed to deserialize analysis request",
			slog.Int("bytes", len(data)),
			slog.String("error", err.Error()))
		return "", &apperrors.InputError{Field: "payload", Message: fmt.Sprintf("malformed analysis request: %v", err)}
	}

	product := strings.TrimSpace(req.ProductName)
	if product == "" {
		return "", &apperrors.InputError{Field: "product_name", Message: "Product name is required"}
	}
	return product, nil
}

// HandleConsumerError logs a read failure. Fatal client errors are reported
// as such so the operator can tell them from transient broker noise.
func HandleConsumerError(err error) {
	if err == nil {
		return
	}

	var kafkaErr kafka.Error
	if errors.As(err, &kafkaErr) && kafkaErr.IsFatal() {
		slog.Error("[KafkaUtils] Fatal Kafka Consumer Error",
			slog.String("code", kafkaErr.Code().String()),
			slog.String("error", err.Error()))
		return
	}
	slog.Warn("[KafkaUtils] Kafka Consumer Error",
		slog.String("error", err.Error()))
}
