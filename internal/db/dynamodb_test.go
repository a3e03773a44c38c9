package db

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/swotflow/internal/swot"
)

type fakeDynamoDB struct {
	inputs []*dynamodb.PutItemInput
	err    error
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.inputs = append(f.inputs, params)
	return &dynamodb.PutItemOutput{}, f.err
}

func TestDynamoDBStoreSave(t *testing.T) {
	fake := &fakeDynamoDB{}
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	record := testRecord("Widget X", at)

	if err := NewDynamoDBStore(fake, "").Save(context.Background(), record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("PutItem called %d times", len(fake.inputs))
	}

	input := fake.inputs[0]
	if *input.TableName != SWOT_ANALYSES_TABLE_NAME {
		t.Errorf("TableName = %q", *input.TableName)
	}

	var item analysisItem
	if err := attributevalue.UnmarshalMap(input.Item, &item); err != nil {
		t.Fatalf("UnmarshalMap() error = %v", err)
	}
	if item.ID != record.ID || item.Product != "Widget X" || item.Source != "api" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.CreatedAt != at.Unix() || item.TTL != at.Add(24*time.Hour).Unix() {
		t.Errorf("created_at=%d ttl=%d", item.CreatedAt, item.TTL)
	}
	if !reflect.DeepEqual(item.Analysis.Strengths, record.Analysis.Strengths) ||
		!reflect.DeepEqual(item.Analysis.Threats, record.Analysis.Threats) {
		t.Errorf("Analysis = %+v, want %+v", item.Analysis, record.Analysis)
	}
	if item.Summary == nil || *item.Summary != *record.Summary {
		t.Errorf("Summary = %+v", item.Summary)
	}
}

func TestDynamoDBStoreFallbackRecord(t *testing.T) {
	fake := &fakeDynamoDB{}
	record := testRecord("Widget X", time.Now())
	record.AnalysisResult = *swot.Fallback("Widget X")

	if err := NewDynamoDBStore(fake, "Custom").Save(context.Background(), record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if *fake.inputs[0].TableName != "Custom" {
		t.Errorf("TableName = %q", *fake.inputs[0].TableName)
	}
	if _, ok := fake.inputs[0].Item["summary"]; ok {
		t.Error("fallback item should not carry a summary")
	}
	if _, ok := fake.inputs[0].Item["chart"]; ok {
		t.Error("fallback item should not carry a chart")
	}
}

func TestDynamoDBStoreError(t *testing.T) {
	fake := &fakeDynamoDB{err: errors.New("ProvisionedThroughputExceededException")}
	if err := NewDynamoDBStore(fake, "").Save(context.Background(), testRecord("Widget X", time.Now())); err == nil {
		t.Error("expected PutItem failure to surface")
	}
}
