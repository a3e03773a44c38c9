package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
	"github.com/spacesedan/swotflow/internal/sentiment"
	"github.com/spacesedan/swotflow/internal/swot"
)

// ReviewSource fetches raw review snippets for a product.
type ReviewSource interface {
	Name() string
	FetchReviews(ctx context.Context, productName string) ([]models.RawReview, error)
}

// ChartRenderer turns classified reviews into an image.
type ChartRenderer interface {
	Render(classified []models.ClassifiedReview, productName string) ([]byte, error)
}

// Analyzer runs fetch -> classify -> map -> summarize -> chart for one
// product. It keeps no state between calls.
type Analyzer struct {
	Source     ReviewSource
	Classifier sentiment.Classifier
	Chart      ChartRenderer

	ChartEnabled     bool
	FailOnChartError bool
	// ReviewLimit caps the number of texts classified. Zero means no cap.
	ReviewLimit int
}

func (a *Analyzer) Analyze(ctx context.Context, productName string) (*models.AnalysisResult, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, &apperrors.InputError{Field: "product_name", Message: "Product name is required"}
	}
	start := time.Now()

	raw, err := a.Source.FetchReviews(ctx, productName)
	if err != nil {
		slog.Error("[Pipeline] Failed to fetch reviews",
			slog.String("product", productName),
			slog.String("source", a.Source.Name()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetching reviews for %q: %w", productName, err)
	}

	texts := ReviewTexts(raw)
	if a.ReviewLimit > 0 && len(texts) > a.ReviewLimit {
		texts = texts[:a.ReviewLimit]
	}

	if len(texts) == 0 {
		slog.Warn("[Pipeline] No review text found - returning fallback analysis",
			slog.String("product", productName),
			slog.Int("items", len(raw)))
		return swot.Fallback(productName), nil
	}

	classified, err := a.Classifier.Classify(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("classifying reviews for %q: %w", productName, err)
	}
	if len(classified) != len(texts) {
		return nil, fmt.Errorf("classifier returned %d results for %d reviews", len(classified), len(texts))
	}

	summary := swot.Summarize(classified)
	result := &models.AnalysisResult{
		Product:  productName,
		Analysis: swot.Map(classified),
		Summary:  &summary,
		Source:   models.SourceAPI,
	}

	if a.ChartEnabled && a.Chart != nil {
		png, err := a.Chart.Render(classified, productName)
		switch {
		case err == nil:
			result.Chart = png
		case a.FailOnChartError:
			return nil, err
		default:
			slog.Warn("[Pipeline] Chart rendering failed - continuing without chart",
				slog.String("product", productName),
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[Pipeline] Analysis complete",
		slog.String("product", productName),
		slog.Int("reviews", summary.TotalReviews),
		slog.Float64("positive_percentage", summary.PositivePercentage),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// ReviewTexts keeps the review text of every item whose text is not blank,
// in source order.
func ReviewTexts(raw []models.RawReview) []string {
	texts := make([]string, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		texts = append(texts, r.Text)
	}
	return texts
}
