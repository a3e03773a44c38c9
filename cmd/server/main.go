package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/api"
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

	classifierReady := &atomic.Bool{}
	go monitoring.WarmClassifier(ctx, classifier, classifierReady, monitoring.HEALTHCHECK_TIMER)

	server := api.NewServer(service, classifierReady, cfg.Server.RequestTimeout)

	go func() {
		if err := server.Start(cfg.Server.Port); err != nil {
			slog.Error("[Main] HTTP server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("[Main] Server shutdown did not complete", slog.String("error", err.Error()))
	}
}
