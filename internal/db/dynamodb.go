package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/swotflow/internal/models"
)

const (
	SWOT_ANALYSES_TABLE_NAME = "SwotAnalyses"
	DYNAMODB_RECORD_TTL      = 24 * time.Hour
)

// DynamoDBAPI is the part of *dynamodb.Client the store uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type analysisItem struct {
	ID        string              `dynamodbav:"id"`
	Product   string              `dynamodbav:"product"`
	Source    string              `dynamodbav:"source"`
	CreatedAt int64               `dynamodbav:"created_at"`
	Analysis  models.SWOTAnalysis `dynamodbav:"analysis"`
	Summary   *models.Summary     `dynamodbav:"summary,omitempty"`
	Chart     []byte              `dynamodbav:"chart,omitempty"`
	TTL       int64               `dynamodbav:"ttl"`
}

// DynamoDBStore writes one item per analysis. Items expire after
// DYNAMODB_RECORD_TTL through the table's ttl attribute.
type DynamoDBStore struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoDBStore(client DynamoDBAPI, table string) *DynamoDBStore {
	if table == "" {
		table = SWOT_ANALYSES_TABLE_NAME
	}
	return &DynamoDBStore{client: client, table: table}
}

func (d *DynamoDBStore) Name() string { return "dynamodb" }

func (d *DynamoDBStore) Save(ctx context.Context, record *models.AnalysisRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	item, err := attributevalue.MarshalMap(analysisItem{
		ID:        record.ID,
		Product:   record.Product,
		Source:    record.Source,
		CreatedAt: createdAt.Unix(),
		Analysis:  record.Analysis,
		Summary:   record.Summary,
		Chart:     record.Chart,
		TTL:       createdAt.Add(DYNAMODB_RECORD_TTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal analysis %s: %w", record.ID, err)
	}

	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put analysis %s: %w", record.ID, err)
	}

	slog.Info("[DynamoDB] Successfully stored analysis",
		slog.String("id", record.ID),
		slog.String("product", record.Product))
	return nil
}
