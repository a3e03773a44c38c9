package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/swotflow/config"
	"github.com/spacesedan/swotflow/internal/models"
	"github.com/spacesedan/swotflow/internal/utils"
)

// HugotClassifier runs a Hugging Face sequence-classification model locally.
type HugotClassifier struct {
	session   *hugot.Session
	pipeline  *pipelines.TextClassificationPipeline
	batchSize int
}

func NewHugotClassifier(ctx context.Context, cfg config.SentimentConfig) (*HugotClassifier, error) {
	modelPath, err := ensureModel(ctx, cfg.Model, cfg.ModelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	pipelineConfig := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "swotSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("failed to initialize sentiment pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline initialized", slog.String("path", modelPath))
	return &HugotClassifier{
		session:   session,
		pipeline:  pipeline,
		batchSize: cfg.BatchSize,
	}, nil
}

func ensureModel(ctx context.Context, model, modelDir string) (string, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(model, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	slog.Info("[HugotClassifier] Model not found, downloading...", slog.String("model", model))
	downloaded, err := hugot.DownloadModel(model, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", model, err)
	}
	slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", downloaded))
	return downloaded, nil
}

func (h *HugotClassifier) Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error) {
	results := make([]models.ClassifiedReview, 0, len(texts))

	for _, batch := range utils.Chunk(texts, h.batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := h.pipeline.RunPipeline(batch)
		if err != nil {
			return nil, fmt.Errorf("sentiment pipeline failed: %w", err)
		}

		classified, err := toClassified(batch, output.ClassificationOutputs)
		if err != nil {
			return nil, err
		}
		results = append(results, classified...)
	}

	return results, nil
}

func (h *HugotClassifier) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}

// toClassified picks the highest scoring label for every input.
func toClassified(texts []string, outputs [][]pipelines.ClassificationOutput) ([]models.ClassifiedReview, error) {
	if len(outputs) != len(texts) {
		return nil, fmt.Errorf("sentiment pipeline returned %d results for %d texts", len(outputs), len(texts))
	}

	results := make([]models.ClassifiedReview, len(texts))
	for i, candidates := range outputs {
		if len(candidates) == 0 {
			return nil, errors.New("sentiment pipeline returned an empty result")
		}

		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.Score > best.Score {
				best = c
			}
		}

		label, err := models.ParseLabel(best.Label)
		if err != nil {
			return nil, err
		}
		results[i] = models.ClassifiedReview{
			Text:  texts[i],
			Label: label,
			Score: clampScore(float64(best.Score)),
		}
	}
	return results, nil
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
