package search

import (
	"strings"

	"github.com/hyperjump/sentaku/internal/catalog"
)

// ProcessQuery normalizes a raw query and truncates it to maxChars runes.
// It returns false when nothing searchable is left.
func ProcessQuery(query string, maxChars int) (string, bool) {
	q := catalog.NormalizeText(query)
	if maxChars > 0 {
		if r := []rune(q); len(r) > maxChars {
			q = strings.TrimSpace(string(r[:maxChars]))
		}
	}
	return q, q != ""
}
