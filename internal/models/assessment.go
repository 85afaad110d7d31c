// Package models defines core data structures for assessments, candidates, and recommendation results.
package models

// Category is the coarse skill type of an assessment.
type Category string

const (
	// CategoryHard covers knowledge and skills assessments.
	CategoryHard Category = "Hard"
	// CategorySoft covers personality, behaviour, ability and similar assessments.
	CategorySoft Category = "Soft"
)

// AssessmentRecord is one catalog entry. Optional fields default to empty strings.
// Records are immutable after the catalog is loaded; URL is the identity.
type AssessmentRecord struct {
	Name          string   `json:"assessment_name"`
	URL           string   `json:"assessment_url"`
	Description   string   `json:"description"`
	TestType      string   `json:"test_type"`
	Duration      string   `json:"duration"`
	RemoteTesting string   `json:"remote_testing"`
	AdaptiveIRT   string   `json:"adaptive_irt"`
	Category      Category `json:"category,omitempty"`
}

// ScoredCandidate is a retrieved record with its similarity score and corpus position.
type ScoredCandidate struct {
	Record   *AssessmentRecord
	Score    float64
	Category Category
	// Ordinal is the record's position in the corpus; it breaks score ties.
	Ordinal int
}

// IsHard reports whether the candidate belongs to the Hard category.
func (c ScoredCandidate) IsHard() bool {
	return c.Category != CategorySoft
}
