package processing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/charts"
	"github.com/spacesedan/swotflow/internal/clients"
	"github.com/spacesedan/swotflow/internal/clients/kafka_client"
	"github.com/spacesedan/swotflow/internal/db"
	"github.com/spacesedan/swotflow/internal/pipeline"
	"github.com/spacesedan/swotflow/internal/reports"
	"github.com/spacesedan/swotflow/internal/sentiment"
)

// NewReviewSource picks the review source named by cfg.Provider.
func NewReviewSource(cfg config.SourceConfig) (pipeline.ReviewSource, error) {
	switch cfg.Provider {
	case "google", "":
		return clients.NewGoogleSearchClient(cfg.Google, cfg.Timeout), nil
	case "reddit":
		return clients.NewRedditClient(cfg.Reddit, cfg.Timeout), nil
	case "feed":
		return clients.NewFeedClient(cfg.Feed, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown review source %q", cfg.Provider)
	}
}

func NewAnalyzer(cfg *config.Config, source pipeline.ReviewSource, classifier sentiment.Classifier) *pipeline.Analyzer {
	return &pipeline.Analyzer{
		Source:           source,
		Classifier:       classifier,
		Chart:            charts.NewSentimentChart(),
		ChartEnabled:     cfg.Chart.Enabled,
		FailOnChartError: cfg.Chart.FailOnError,
		ReviewLimit:      cfg.Source.ReviewLimit,
	}
}

// NewResultStore opens every backend listed in cfg.Backends, in order.
func NewResultStore(ctx context.Context, cfg config.StoreConfig) (*db.MultiStore, error) {
	stores := make([]db.ResultStore, 0, len(cfg.Backends))
	closeOpened := func() { _ = db.NewMultiStore(stores...).Close() }

	for _, backend := range cfg.Backends {
		switch backend {
		case "file":
			stores = append(stores, db.NewFileStore(cfg.ResultsDir))
		case "sqlite":
			s, err := db.OpenSQLite(ctx, cfg.SQLitePath)
			if err != nil {
				closeOpened()
				return nil, err
			}
			stores = append(stores, s)
		case "dynamodb":
			client, err := clients.GetDynamoDBClient(ctx, cfg.DynamoDB)
			if err != nil {
				closeOpened()
				return nil, err
			}
			stores = append(stores, db.NewDynamoDBStore(client, cfg.DynamoDB.Table))
		case "valkey":
			vc, err := clients.InitValkey(cfg.Valkey)
			if err != nil {
				closeOpened()
				return nil, err
			}
			stores = append(stores, db.NewValkeyStore(vc, cfg.Valkey.TTL))
		default:
			closeOpened()
			return nil, fmt.Errorf("unknown result store %q", backend)
		}
		slog.Info("[Wiring] Result store enabled", slog.String("store", backend))
	}

	return db.NewMultiStore(stores...), nil
}

// Build assembles the analysis service from configuration. The returned
// cleanup releases stores and the event publisher; the shared classifier is
// released separately with sentiment.Shutdown.
func Build(ctx context.Context, cfg *config.Config) (*Service, *sentiment.Lazy, func(), error) {
	source, err := NewReviewSource(cfg.Source)
	if err != nil {
		return nil, nil, nil, err
	}

	classifier := sentiment.Shared(cfg.Sentiment)

	store, err := NewResultStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, nil, err
	}

	var publisher Publisher
	var closePublisher func()
	if cfg.Kafka.Enabled {
		p, err := kafka_client.NewPublisher(kafka_client.ProducerConfig(cfg.Kafka))
		if err != nil {
			_ = store.Close()
			return nil, nil, nil, err
		}
		publisher, closePublisher = p, p.Close
	}

	cleanup := func() {
		if closePublisher != nil {
			closePublisher()
		}
		if err := store.Close(); err != nil {
			slog.Warn("[Wiring] Failed to close result stores", slog.String("error", err.Error()))
		}
		clients.CloseValkey()
	}

	service := NewService(
		NewAnalyzer(cfg, source, classifier),
		store,
		reports.NewPDFReport(),
		cfg.Store.PDFDir,
		publisher,
	)
	return service, classifier, cleanup, nil
}
