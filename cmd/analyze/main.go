package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/logging"
	"github.com/spacesedan/swotflow/internal/processing"
	"github.com/spacesedan/swotflow/internal/sentiment"
)

func main() {
	product := flag.String("product", "", "product name to analyze")
	configPath := flag.String("config", "config/config.yaml", "path to the YAML configuration")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.Log.Level)

	if err := run(cfg, *product); err != nil {
		slog.Error("[Main] Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, product string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, _, cleanup, err := processing.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer sentiment.Shutdown()
	defer cleanup()

	record, err := service.Run(ctx, product)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(record)
}
