package swot

import (
	"fmt"

	"github.com/spacesedan/swotflow/internal/models"
)

// Fallback is the static analysis returned when no review text is available.
// Only the first strength mentions the product.
func Fallback(productName string) *models.AnalysisResult {
	return &models.AnalysisResult{
		Product: productName,
		Analysis: models.SWOTAnalysis{
			Strengths: []string{
				fmt.Sprintf("Brand recognition for %s", productName),
				"Quality build and materials",
				"Strong ecosystem integration",
			},
			Weaknesses: []string{
				"Premium pricing limiting market penetration",
				"Limited customization compared to competitors",
				"Proprietary accessories and components",
			},
			Opportunities: []string{
				"Emerging markets expansion",
				"Services revenue growth",
				"Sustainability initiatives appeal",
			},
			Threats: []string{
				"Increasing market competition",
				"Economic uncertainties affecting consumer spending",
				"Regulatory challenges in key markets",
			},
		},
		Chart:  nil,
		Source: models.SourceFallback,
	}
}
