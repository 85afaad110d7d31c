package catalog

import (
	"strings"
	"unicode"

	"github.com/hyperjump/sentaku/internal/models"
)

var hardCodes = map[string]bool{"K": true, "S": true}

var softCodes = map[string]bool{"P": true, "B": true, "A": true, "E": true, "D": true, "C": true}

// Codes splits a test_type value into upper-cased codes.
// Separators are commas, whitespace, '&' and '/'. The scraper's "N/A" placeholder yields no codes.
func Codes(testType string) []string {
	trimmed := strings.TrimSpace(testType)
	if strings.EqualFold(trimmed, "N/A") || strings.EqualFold(trimmed, "NA") {
		return nil
	}
	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == '&' || r == '/' || unicode.IsSpace(r)
	})
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		codes = append(codes, strings.ToUpper(f))
	}
	return codes
}

// Classify derives the category from test_type.
// Hard if any code is K or S; otherwise Soft if any code is P, B, A, E, D or C; otherwise Hard.
func Classify(testType string) models.Category {
	codes := Codes(testType)
	for _, c := range codes {
		if hardCodes[c] {
			return models.CategoryHard
		}
	}
	for _, c := range codes {
		if softCodes[c] {
			return models.CategorySoft
		}
	}
	return models.CategoryHard
}
