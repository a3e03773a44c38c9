package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/logging"
	"github.com/spacesedan/swotflow/internal/processing"
	"github.com/spacesedan/swotflow/internal/sentiment"
	"github.com/spacesedan/swotflow/internal/tools"
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
	// stdout carries the MCP protocol, so logs go to stderr.
	slog.SetDefault(logging.NewLogger(os.Stderr, cfg.Log.Level))

	service, _, cleanup, err := processing.Build(context.Background(), cfg)
	if err != nil {
		slog.Error("[Main] Failed to build analysis service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sentiment.Shutdown()
	defer cleanup()

	slog.Info("[Main] Serving MCP tools over stdio", slog.String("tool", tools.SWOT_TOOL_NAME))
	if err := server.ServeStdio(tools.NewServer(service)); err != nil {
		slog.Error("[Main] MCP server stopped", slog.String("error", err.Error()))
	}
}
