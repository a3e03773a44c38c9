package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/swotflow/internal/models"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := htmlTagPattern.ReplaceAllString(string(output), " ")
	plainText = strings.Join(strings.Fields(plainText), " ")

	return RemoveLinks(plainText)
}

// VADERClassifier is a lexicon-based backend that needs no model download.
// VADER's neutral band is folded into the binary labels: a compound score of
// zero or above is POSITIVE.
type VADERClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERClassifier() *VADERClassifier {
	return &VADERClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VADERClassifier) Classify(ctx context.Context, texts []string) ([]models.ClassifiedReview, error) {
	results := make([]models.ClassifiedReview, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, score := v.AnalyzeWithVADER(text)
		results[i] = models.ClassifiedReview{Text: text, Label: label, Score: score}
	}
	return results, nil
}

// AnalyzeWithVADER returns the binary label and a confidence in [0.5, 1].
func (v *VADERClassifier) AnalyzeWithVADER(text string) (models.Label, float64) {
	compound := v.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound

	label := models.LabelPositive
	if compound < 0 {
		label = models.LabelNegative
	}
	return label, (1 + math.Abs(compound)) / 2
}
