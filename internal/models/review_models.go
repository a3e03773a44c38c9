package models

import (
	"fmt"
	"strings"
)

// RawReview is a single snippet returned by a review source.
type RawReview struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
	Price  string `json:"price,omitempty"`
	Rating string `json:"rating,omitempty"`
	Text   string `json:"reviews"`
}

type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
)

// ParseLabel accepts the label spellings produced by the sentiment backends
// ("POSITIVE", "positive", "LABEL_1", ...) and rejects anything non-binary.
func ParseLabel(raw string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE", "POS", "LABEL_1":
		return LabelPositive, nil
	case "NEGATIVE", "NEG", "LABEL_0":
		return LabelNegative, nil
	default:
		return "", fmt.Errorf("unknown sentiment label %q", raw)
	}
}

type ClassifiedReview struct {
	Text  string  `json:"review"`
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}
