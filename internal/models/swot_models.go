package models

import "time"

const (
	SourceAPI      = "api"
	SourceFallback = "fallback"
)

// SWOTAnalysis keeps the capitalised keys the report consumers already expect.
type SWOTAnalysis struct {
	Strengths     []string `json:"Strengths"`
	Weaknesses    []string `json:"Weaknesses"`
	Opportunities []string `json:"Opportunities"`
	Threats       []string `json:"Threats"`
}

func NewSWOTAnalysis() SWOTAnalysis {
	return SWOTAnalysis{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Opportunities: []string{},
		Threats:       []string{},
	}
}

// Categories returns the buckets in report order.
func (s SWOTAnalysis) Categories() []Category {
	return []Category{
		{Name: "Strengths", Items: s.Strengths},
		{Name: "Weaknesses", Items: s.Weaknesses},
		{Name: "Opportunities", Items: s.Opportunities},
		{Name: "Threats", Items: s.Threats},
	}
}

type Category struct {
	Name  string
	Items []string
}

type Summary struct {
	TotalReviews       int     `json:"total_reviews"`
	Positive           int     `json:"positive"`
	Negative           int     `json:"negative"`
	PositivePercentage float64 `json:"positive_percentage"`
}

type AnalysisResult struct {
	Product  string       `json:"product"`
	Analysis SWOTAnalysis `json:"analysis"`
	Chart    []byte       `json:"chart"`
	Summary  *Summary     `json:"summary,omitempty"`
	Source   string       `json:"source"`
}

// AnalysisRecord is what the service persists and returns to callers.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	AnalysisResult
	LocalFile string `json:"local_file,omitempty"`
	PDFFile   string `json:"pdf_file,omitempty"`
}

// AnalysisRequest is the payload accepted by the HTTP and Kafka boundaries.
type AnalysisRequest struct {
	ProductName string `json:"product_name"`
}
