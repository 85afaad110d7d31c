package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// NormalizeText applies NFKC and collapses whitespace.
func NormalizeText(s string) string {
	return utils.CollapseSpaces(norm.NFKC.String(s))
}

func normalizeRecord(r models.AssessmentRecord) models.AssessmentRecord {
	r.Name = NormalizeText(r.Name)
	r.URL = strings.TrimSpace(r.URL)
	r.Description = NormalizeText(r.Description)
	r.TestType = strings.TrimSpace(r.TestType)
	r.Duration = strings.TrimSpace(r.Duration)
	r.RemoteTesting = strings.TrimSpace(r.RemoteTesting)
	r.AdaptiveIRT = strings.TrimSpace(r.AdaptiveIRT)
	r.Category = ""
	return r
}

// CorpusText is the text embedded for a record: name followed by description.
func CorpusText(r *models.AssessmentRecord) string {
	if r.Description == "" {
		return r.Name
	}
	return r.Name + " " + r.Description
}
