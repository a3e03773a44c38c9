package swot

import (
	"math"

	"github.com/spacesedan/swotflow/internal/models"
)

// Summarize counts labels over a non-empty slice of classified reviews.
// PositivePercentage is rounded half-up to one decimal place, so 1 of 16
// reviews reports 6.3. Calling Summarize with no reviews is a programming
// error and panics; the pipeline takes the fallback branch instead.
func Summarize(classified []models.ClassifiedReview) models.Summary {
	total := len(classified)
	if total == 0 {
		panic("swot: Summarize called with no reviews")
	}

	var positive, negative int
	for _, review := range classified {
		switch review.Label {
		case models.LabelPositive:
			positive++
		case models.LabelNegative:
			negative++
		}
	}

	return models.Summary{
		TotalReviews:       total,
		Positive:           positive,
		Negative:           negative,
		PositivePercentage: RoundOneDecimal(float64(positive) * 100 / float64(total)),
	}
}

// RoundOneDecimal rounds half away from zero, which is half-up for the
// non-negative percentages produced here.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
