package kafka_client

import "github.com/spacesedan/swotflow/config"

type KafkaConfig struct {
	Broker  string
	GroupID string
	Topic   string
	Commit  CommitPolicy
}

// ConsumerConfig targets the request topic.
func ConsumerConfig(cfg config.KafkaConfig) KafkaConfig {
	return KafkaConfig{
		Broker:  cfg.Broker,
		GroupID: cfg.GroupID,
		Topic:   orDefault(cfg.RequestTopic, KAFKA_TOPIC_ANALYSIS_REQUESTS),
		Commit:  CommitPolicy{Retries: cfg.CommitRetries, Backoff: cfg.CommitBackoff},
	}
}

// ProducerConfig targets the result topic.
func ProducerConfig(cfg config.KafkaConfig) KafkaConfig {
	return KafkaConfig{
		Broker: cfg.Broker,
		Topic:  orDefault(cfg.ResultTopic, KAFKA_TOPIC_ANALYSIS_RESULTS),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
