package charts

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

const (
	CHART_WIDTH     = 640
	CHART_HEIGHT    = 480
	CHART_BAR_WIDTH = 120
)

// SentimentChart draws the label histogram of a classified review set as a
// PNG bar chart.
type SentimentChart struct {
	Width    int
	Height   int
	BarWidth int
}

func NewSentimentChart() *SentimentChart {
	return &SentimentChart{Width: CHART_WIDTH, Height: CHART_HEIGHT, BarWidth: CHART_BAR_WIDTH}
}

type LabelCount struct {
	Label models.Label
	Count int
}

// Counts returns one entry per label present, highest count first. Ties keep
// POSITIVE ahead of NEGATIVE.
func Counts(classified []models.ClassifiedReview) []LabelCount {
	totals := map[models.Label]int{}
	for _, r := range classified {
		totals[r.Label]++
	}

	counts := make([]LabelCount, 0, len(totals))
	for _, label := range []models.Label{models.LabelPositive, models.LabelNegative} {
		if n := totals[label]; n > 0 {
			counts = append(counts, LabelCount{Label: label, Count: n})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

func (c *SentimentChart) Render(classified []models.ClassifiedReview, productName string) ([]byte, error) {
	counts := Counts(classified)
	if len(counts) == 0 {
		return nil, &apperrors.RenderError{Err: fmt.Errorf("no classified reviews to chart")}
	}

	bars := make([]chart.Value, 0, len(counts))
	maxCount := 0
	for _, lc := range counts {
		bars = append(bars, chart.Value{Label: string(lc.Label), Value: float64(lc.Count)})
		if lc.Count > maxCount {
			maxCount = lc.Count
		}
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Sentiment Analysis for '%s'", productName),
		Width:    c.Width,
		Height:   c.Height,
		BarWidth: c.BarWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		slog.Error("[SentimentChart] Render failed",
			slog.String("product", productName),
			slog.String("error", err.Error()))
		return nil, &apperrors.RenderError{Err: err}
	}

	slog.Debug("[SentimentChart] Chart rendered",
		slog.String("product", productName),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
