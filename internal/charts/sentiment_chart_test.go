package charts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func classified(labels ...models.Label) []models.ClassifiedReview {
	out := make([]models.ClassifiedReview, len(labels))
	for i, l := range labels {
		out[i] = models.ClassifiedReview{Text: "review", Label: l, Score: 0.9}
	}
	return out
}

func TestCountsOrdering(t *testing.T) {
	counts := Counts(classified(models.LabelNegative, models.LabelNegative, models.LabelPositive))
	if len(counts) != 2 {
		t.Fatalf("got %d bars, want 2", len(counts))
	}
	if counts[0].Label != models.LabelNegative || counts[0].Count != 2 {
		t.Errorf("highest count should come first, got %+v", counts)
	}

	tie := Counts(classified(models.LabelNegative, models.LabelPositive))
	if tie[0].Label != models.LabelPositive {
		t.Errorf("ties should keep POSITIVE first, got %+v", tie)
	}

	single := Counts(classified(models.LabelPositive, models.LabelPositive))
	if len(single) != 1 {
		t.Errorf("absent labels should not get a bar, got %+v", single)
	}
}

func TestRenderProducesPNG(t *testing.T) {
	tests := map[string][]models.ClassifiedReview{
		"mixed":         classified(models.LabelPositive, models.LabelPositive, models.LabelNegative),
		"positive only": classified(models.LabelPositive),
		"even split":    classified(models.LabelPositive, models.LabelNegative),
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			png, err := NewSentimentChart().Render(input, "Widget X")
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !bytes.HasPrefix(png, pngMagic) {
				t.Errorf("output is not a PNG (first bytes %x)", png[:min(8, len(png))])
			}
		})
	}
}

func TestRenderEmptyIsRenderError(t *testing.T) {
	_, err := NewSentimentChart().Render(nil, "Widget X")
	if !errors.Is(err, apperrors.ErrRender) {
		t.Errorf("error = %v, want ErrRender", err)
	}
}
