package retrieval

import (
	"errors"

	"github.com/hyperjump/sentaku/internal/models"
)

var (
	// ErrEmbeddingUnavailable means the query could not be embedded.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrIndexUnavailable means the vector index could not be queried.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrModelMismatch means index vectors were produced by a different model than the query embedder.
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// Status classifies a retrieval.
type Status string

const (
	// StatusOK means at least one candidate was found.
	StatusOK Status = "ok"
	// StatusEmpty means the backends answered but there was nothing to return.
	StatusEmpty Status = "empty"
	// StatusUnavailable means a backend failed; Err says which.
	StatusUnavailable Status = "unavailable"
)

// Outcome is the typed result of one retrieval.
type Outcome struct {
	Status     Status
	Candidates []models.ScoredCandidate
	Err        error
}

// Reachable reports whether the backends were reached, whatever the result size.
func (o Outcome) Reachable() bool {
	return o.Status != StatusUnavailable
}

func unavailable(sentinel, cause error) Outcome {
	if cause == nil {
		return Outcome{Status: StatusUnavailable, Err: sentinel}
	}
	return Outcome{Status: StatusUnavailable, Err: errors.Join(sentinel, cause)}
}
