package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/clients/kafka_client"
	"github.com/spacesedan/swotflow/internal/consumers"
	"github.com/spacesedan/swotflow/internal/logging"
	"github.com/spacesedan/swotflow/internal/monitoring"
	"github.com/spacesedan/swotflow/internal/processing"
	"github.com/spacesedan/swotflow/internal/sentiment"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("[Main] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, classifier, cleanup, err := processing.Build(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to build analysis service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sentiment.Shutdown()
	defer cleanup()

	classifierHealthy := &atomic.Bool{}
	go monitoring.WarmClassifier(ctx, classifier, classifierHealthy, monitoring.HEALTHCHECK_TIMER)

	consumerCfg := kafka_client.ConsumerConfig(cfg.Kafka)
	requests := consumers.NewAnalysisRequestConsumer(service).WithCommitPolicy(consumerCfg.Commit)
	kafka_client.RegisterConsumer(consumerCfg.Topic,
		consumers.WrapConsumer(requests.Start).WithHealthCheck(classifierHealthy).Handler())

	if err := kafka_client.StartConsumer(ctx, consumerCfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
