package kafka_client

import (
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spacesedan/swotflow/internal/models"
)

// EncodeAnalysisEvent serialises a record as a protobuf Struct whose fields
// mirror the record's JSON document.
func EncodeAnalysisEvent(record *models.AnalysisRecord) ([]byte, error) {
	doc, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("[AnalysisEvent] failed to encode record: %w", err)
	}

	var s structpb.Struct
	if err := protojson.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("[AnalysisEvent] failed to build struct: %w", err)
	}

	return proto.Marshal(&s)
}

func DecodeAnalysisEvent(data []byte) (*models.AnalysisRecord, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("[AnalysisEvent] invalid protobuf payload: %w", err)
	}

	doc, err := protojson.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("[AnalysisEvent] failed to render struct: %w", err)
	}

	var record models.AnalysisRecord
	if err := json.Unmarshal(doc, &record); err != nil {
		return nil, fmt.Errorf("[AnalysisEvent] struct does not describe an analysis: %w", err)
	}
	return &record, nil
}

// NewAnalysisMessage keys the event by product so one product's analyses
// land on one partition.
func NewAnalysisMessage(topic string, record *models.AnalysisRecord) (*kafka.Message, error) {
	value, err := EncodeAnalysisEvent(record)
	if err != nil {
		return nil, err
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.Product),
		Value:          value,
		Headers: []kafka.Header{
			{Key: CONTENT_TYPE_HEADER, Value: []byte(CONTENT_TYPE_PROTOBUF)},
		},
	}, nil
}

// NewRequestMessage builds the JSON request consumed from the request topic.
func NewRequestMessage(topic, productName string) (*kafka.Message, error) {
	value, err := json.Marshal(models.AnalysisRequest{ProductName: productName})
	if err != nil {
		return nil, fmt.Errorf("[AnalysisRequest] failed to encode request: %w", err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(productName),
		Value:          value,
		Headers: []kafka.Header{
			{Key: CONTENT_TYPE_HEADER, Value: []byte("application/json")},
		},
	}, nil
}

// HeaderValue returns the first header named key.
func HeaderValue(msg *kafka.Message, key string) (string, bool) {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}
