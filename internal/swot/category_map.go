package swot

import (
	"strings"

	"github.com/spacesedan/swotflow/internal/models"
)

type Bucket int

const (
	Strengths Bucket = iota
	Weaknesses
	Opportunities
	Threats
)

func (b Bucket) String() string {
	switch b {
	case Strengths:
		return "Strengths"
	case Weaknesses:
		return "Weaknesses"
	case Opportunities:
		return "Opportunities"
	case Threats:
		return "Threats"
	default:
		return "Unknown"
	}
}

// Rule routes a review with the given label to Bucket when its text contains
// Keyword (case-insensitive substring). An empty Keyword always matches.
type Rule struct {
	Label   models.Label
	Keyword string
	Bucket  Bucket
}

func (r Rule) Matches(review models.ClassifiedReview) bool {
	if review.Label != r.Label {
		return false
	}
	if r.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(review.Text), strings.ToLower(r.Keyword))
}

// CategoryRules is evaluated top to bottom; the first match wins. Substring
// matching is intentionally loose: "priceless" matches "price".
var CategoryRules = []Rule{
	{Label: models.LabelPositive, Keyword: "price", Bucket: Strengths},
	{Label: models.LabelPositive, Bucket: Opportunities},
	{Label: models.LabelNegative, Keyword: "delivery", Bucket: Threats},
	{Label: models.LabelNegative, Bucket: Weaknesses},
}

// Route returns the bucket for a single review.
func Route(review models.ClassifiedReview) (Bucket, bool) {
	for _, rule := range CategoryRules {
		if rule.Matches(review) {
			return rule.Bucket, true
		}
	}
	return 0, false
}

// Map partitions the classified reviews into the four SWOT buckets, keeping
// input order within each bucket. Confidence scores play no part in routing.
func Map(classified []models.ClassifiedReview) models.SWOTAnalysis {
	analysis := models.NewSWOTAnalysis()

	for _, review := range classified {
		bucket, ok := Route(review)
		if !ok {
			// ParseLabel guarantees a binary label upstream.
			continue
		}

		switch bucket {
		case Strengths:
			analysis.Strengths = append(analysis.Strengths, review.Text)
		case Weaknesses:
			analysis.Weaknesses = append(analysis.Weaknesses, review.Text)
		case Opportunities:
			analysis.Opportunities = append(analysis.Opportunities, review.Text)
		case Threats:
			analysis.Threats = append(analysis.Threats, review.Text)
		}
	}

	return analysis
}
