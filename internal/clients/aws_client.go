package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/swotflow/config"
)

var (
	awsCfg  aws.Config
	awsErr  error
	awsOnce sync.Once
)

// GetAWSConfig loads the default credential chain once per process.
func GetAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...", slog.String("region", region))
		awsCfg, awsErr = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if awsErr != nil {
			slog.Error("[AWSClient] Failed to load AWS config", slog.String("error", awsErr.Error()))
			awsErr = fmt.Errorf("[AWSClient] failed to load AWS config: %w", awsErr)
			return
		}
		slog.Info("[AWSClient] AWS Config Initialized")
	})
	return awsCfg, awsErr
}

// GetDynamoDBClient builds a client, pointing it at cfg.Endpoint when set
// (DynamoDB Local in development).
func GetDynamoDBClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	sdkCfg, err := GetAWSConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(sdkCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
