package reports

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Transliterate decomposes s (NFKD) and drops every rune that has no
// ISO-8859-1 encoding, so "Café – great" becomes "Cafe  great". The core PDF
// fonts cannot draw anything else. This is lossy on purpose: currency signs
// such as ₹ and typographic dashes disappear.
func Transliterate(s string) string {
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if _, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}
