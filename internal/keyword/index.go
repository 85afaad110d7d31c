// Package keyword provides keyword lookup over the assessment catalog.
package keyword

import (
	"context"

	"github.com/hyperjump/sentaku/internal/models"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// NameBoost multiplies the score contribution from matches in the assessment name.
	// Use 1.0 for no boost.
	NameBoost float64
	// FuzzyEnabled enables typo-tolerant matching.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein edit distance (1 or 2). Default is 1.
	Fuzziness int
}

// KeywordIndex defines keyword search operations over catalog records.
// Records are identified by url.
type KeywordIndex interface {
	Index(ctx context.Context, rec *models.AssessmentRecord) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error)
	Delete(ctx context.Context, url string) error
	// DocCount returns the total number of records in the index.
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}
