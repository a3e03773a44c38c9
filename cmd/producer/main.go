package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/clients/kafka_client"
	"github.com/spacesedan/swotflow/internal/logging"
	"github.com/spacesedan/swotflow/internal/producer"
)

const INIT_RETRY_DELAY = 5 * time.Second

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

	watchlist := producer.NewWatchlist(nil, cfg.Kafka.Watchlist)
	if len(watchlist.Products()) == 0 {
		slog.Warn("[Main] Watchlist is empty, nothing to enqueue")
		return
	}

	var publisher *kafka_client.Publisher
	for {
		publisher, err = kafka_client.NewPublisher(kafka_client.ConsumerConfig(cfg.Kafka))
		if err == nil {
			break
		}

		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(INIT_RETRY_DELAY):
		}
	}
	defer publisher.Close()

	producer.NewWatchlist(publisher, cfg.Kafka.Watchlist).Run(ctx, cfg.Kafka.RequestInterval)
	slog.Info("[Main] Shutting down producer gracefully...")
}
