package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spacesedan/swotflow/internal/models"
)

const (
	SERVER_NAME    = "swot analysis mcp"
	SERVER_VERSION = "1.0.0"
	SWOT_TOOL_NAME = "swot_analysis"
)

type AnalysisRunner interface {
	Run(ctx context.Context, productName string) (*models.AnalysisRecord, error)
}

// NewServer exposes the analysis service as an MCP tool server.
func NewServer(runner AnalysisRunner) *server.MCPServer {
	s := server.NewMCPServer(SERVER_NAME, SERVER_VERSION,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(SWOTTool(), SWOTHandler(runner))
	return s
}

func SWOTTool() mcp.Tool {
	return mcp.NewTool(SWOT_TOOL_NAME,
		mcp.WithDescription("Run a review-based SWOT analysis for a product and return the stored record as JSON."),
		mcp.WithString("product_name",
			mcp.Required(),
			mcp.Description("Product to analyze, e.g. \"iPhone 15\""),
		),
	)
}

// SWOTHandler runs one analysis per call. Failures are reported as tool
// errors so the calling model sees the message.
func SWOTHandler(runner AnalysisRunner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		product, _ := request.GetArguments()["product_name"].(string)
		product = strings.TrimSpace(product)
		if product == "" {
			return mcp.NewToolResultError("Product name is required"), nil
		}

		record, err := runner.Run(ctx, product)
		if err != nil {
			slog.Error("[SWOTTool] Analysis failed",
				slog.String("product", product),
				slog.String("error", err.Error()))
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := json.MarshalIndent(record, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("encoding analysis for %q: %w", product, err)
		}

		slog.Info("[SWOTTool] Analysis returned",
			slog.String("product", product),
			slog.String("id", record.ID))
		return mcp.NewToolResultText(string(payload)), nil
	}
}
