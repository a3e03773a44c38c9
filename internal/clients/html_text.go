package clients

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText flattens an HTML fragment into whitespace-normalised text.
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
