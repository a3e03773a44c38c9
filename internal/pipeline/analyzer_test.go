package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
	"github.com/spacesedan/swotflow/internal/swot"
)

type stubSource struct {
	reviews []models.RawReview
	err     error
	calls   int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchReviews(ctx context.Context, productName string) ([]models.RawReview, error) {
	s.calls++
	return s.reviews, s.err
}

// keywordClassifier labels a text NEGATIVE when it mentions any of the
// negative words and POSITIVE otherwise.
type keywordClassifier struct {
	negative []string
	calls    int
	seen     []string
}

func (k *keywordClassifier) Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error) {
	k.calls++
	k.seen = append(k.seen, texts...)
	out := make([]models.ClassifiedReview, len(texts))
	for i, text := range texts {
		label := models.LabelPositive
		for _, word := range k.negative {
			if strings.Contains(strings.ToLower(text), word) {
				label = models.LabelNegative
			}
		}
		out[i] = models.ClassifiedReview{Text: text, Label: label, Score: 0.9}
	}
	return out, nil
}

type stubChart struct {
	png   []byte
	err   error
	calls int
}

func (c *stubChart) Render(classified []models.ClassifiedReview, productName string) ([]byte, error) {
	c.calls++
	return c.png, c.err
}

func reviews(texts ...string) []models.RawReview {
	out := make([]models.RawReview, len(texts))
	for i, text := range texts {
		out[i] = models.RawReview{Title: "t", Link: "https://www.amazon.in/x", Source: "Amazon", Text: text}
	}
	return out
}

func newAnalyzer(src *stubSource, cls *keywordClassifier, chart *stubChart) *Analyzer {
	return &Analyzer{Source: src, Classifier: cls, Chart: chart, ChartEnabled: true}
}

func TestAnalyzeExampleScenario(t *testing.T) {
	src := &stubSource{reviews: reviews(
		"Great price for the quality",
		"Battery life is amazing",
		"Delivery was late by a week",
		"Screen cracked after two days",
	)}
	cls := &keywordClassifier{negative: []string{"late", "cracked"}}
	chart := &stubChart{png: []byte("png")}

	result, err := newAnalyzer(src, cls, chart).Analyze(context.Background(), "Widget X")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := models.SWOTAnalysis{
		Strengths:     []string{"Great price for the quality"},
		Weaknesses:    []string{"Screen cracked after two days"},
		Opportunities: []string{"Battery life is amazing"},
		Threats:       []string{"Delivery was late by a week"},
	}
	if !reflect.DeepEqual(result.Analysis, want) {
		t.Errorf("Analysis = %+v, want %+v", result.Analysis, want)
	}
	wantSummary := models.Summary{TotalReviews: 4, Positive: 2, Negative: 2, PositivePercentage: 50}
	if result.Summary == nil || *result.Summary != wantSummary {
		t.Errorf("Summary = %+v, want %+v", result.Summary, wantSummary)
	}
	if result.Source != models.SourceAPI || result.Product != "Widget X" {
		t.Errorf("unexpected provenance %q/%q", result.Source, result.Product)
	}
	if string(result.Chart) != "png" || chart.calls != 1 {
		t.Errorf("chart not attached (calls=%d)", chart.calls)
	}
}

func TestAnalyzeDropsBlankTexts(t *testing.T) {
	src := &stubSource{reviews: reviews("", "  \t", "Solid build", "\n")}
	cls := &keywordClassifier{}

	result, err := newAnalyzer(src, cls, &stubChart{}).Analyze(context.Background(), "Widget X")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !reflect.DeepEqual(cls.seen, []string{"Solid build"}) {
		t.Errorf("classifier saw %q", cls.seen)
	}
	if result.Summary.TotalReviews != 1 {
		t.Errorf("TotalReviews = %d, want 1", result.Summary.TotalReviews)
	}
}

func TestAnalyzeFallback(t *testing.T) {
	for name, raw := range map[string][]models.RawReview{
		"no items":    nil,
		"blank texts": reviews("", "   "),
	} {
		t.Run(name, func(t *testing.T) {
			cls := &keywordClassifier{}
			chart := &stubChart{png: []byte("png")}
			a := newAnalyzer(&stubSource{reviews: raw}, cls, chart)

			first, err := a.Analyze(context.Background(), "Widget X")
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			second, _ := a.Analyze(context.Background(), "Widget X")

			if !reflect.DeepEqual(first, second) {
				t.Error("fallback should be deterministic")
			}
			if !reflect.DeepEqual(first, swot.Fallback("Widget X")) {
				t.Errorf("unexpected fallback %+v", first)
			}
			if first.Summary != nil || first.Chart != nil || first.Source != models.SourceFallback {
				t.Errorf("fallback should have no summary or chart, got %+v", first)
			}
			if cls.calls != 0 || chart.calls != 0 {
				t.Errorf("classifier/chart called on fallback branch (%d/%d)", cls.calls, chart.calls)
			}
		})
	}
}

func TestAnalyzeSourceErrorPropagates(t *testing.T) {
	srcErr := &apperrors.SourceError{Source: "google", StatusCode: 403, Message: "Google Search API failed: quota"}
	src := &stubSource{err: srcErr}
	cls := &keywordClassifier{}

	_, err := newAnalyzer(src, cls, &stubChart{}).Analyze(context.Background(), "Widget X")
	if !errors.Is(err, apperrors.ErrSource) {
		t.Fatalf("error = %v, want ErrSource", err)
	}
	if !strings.Contains(err.Error(), "Google Search API failed: quota") {
		t.Errorf("upstream message lost: %q", err.Error())
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want exactly 1", src.calls)
	}
	if cls.calls != 0 {
		t.Error("classifier should not run after a source failure")
	}
}

func TestAnalyzeBlankProduct(t *testing.T) {
	src := &stubSource{}
	_, err := newAnalyzer(src, &keywordClassifier{}, &stubChart{}).Analyze(context.Background(), "  ")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
	if src.calls != 0 {
		t.Error("source should not be queried for a blank product")
	}
}

func TestAnalyzeChartFailure(t *testing.T) {
	renderErr := &apperrors.RenderError{Err: errors.New("no fonts")}

	t.Run("degrades", func(t *testing.T) {
		a := newAnalyzer(&stubSource{reviews: reviews("Nice")}, &keywordClassifier{}, &stubChart{err: renderErr})
		result, err := a.Analyze(context.Background(), "Widget X")
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if result.Chart != nil || result.Summary == nil {
			t.Errorf("expected result without chart, got %+v", result)
		}
	})

	t.Run("fatal", func(t *testing.T) {
		a := newAnalyzer(&stubSource{reviews: reviews("Nice")}, &keywordClassifier{}, &stubChart{err: renderErr})
		a.FailOnChartError = true
		_, err := a.Analyze(context.Background(), "Widget X")
		if !errors.Is(err, apperrors.ErrRender) {
			t.Errorf("error = %v, want ErrRender", err)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		chart := &stubChart{png: []byte("png")}
		a := newAnalyzer(&stubSource{reviews: reviews("Nice")}, &keywordClassifier{}, chart)
		a.ChartEnabled = false
		result, err := a.Analyze(context.Background(), "Widget X")
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if chart.calls != 0 || result.Chart != nil {
			t.Error("disabled chart should not be rendered")
		}
	})
}

func TestAnalyzeReviewLimit(t *testing.T) {
	cls := &keywordClassifier{}
	a := newAnalyzer(&stubSource{reviews: reviews("a", "", "b", "c", "d")}, cls, &stubChart{})
	a.ReviewLimit = 2

	result, err := a.Analyze(context.Background(), "Widget X")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !reflect.DeepEqual(cls.seen, []string{"a", "b"}) {
		t.Errorf("classifier saw %q, want first two non-blank texts", cls.seen)
	}
	if result.Summary.TotalReviews != 2 {
		t.Errorf("TotalReviews = %d, want 2", result.Summary.TotalReviews)
	}
}

type shortClassifier struct{}

func (shortClassifier) Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error) {
	return nil, nil
}

func TestAnalyzeClassifierLengthMismatch(t *testing.T) {
	a := &Analyzer{Source: &stubSource{reviews: reviews("x")}, Classifier: shortClassifier{}}
	if _, err := a.Analyze(context.Background(), "Widget X"); err == nil {
		t.Error("expected an error when the classifier drops results")
	}
}
