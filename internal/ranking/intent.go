package ranking

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NeedsSoft reports whether the NFKC-normalized, lower-cased query contains any soft-skill keyword.
func NeedsSoft(query string, keywords []string) bool {
	q := strings.ToLower(norm.NFKC.String(query))
	for _, kw := range keywords {
		if kw != "" && strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
