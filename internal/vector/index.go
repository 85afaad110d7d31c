// Package vector provides nearest-neighbour indexes over embeddings.
package vector

import "context"

// VectorIndex defines vector storage and similarity search.
// Search returns at most k results ordered by score descending; equal scores keep insertion order.
type VectorIndex interface {
	Add(ctx context.Context, items []Item) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Size() int
	Type() string
	Close() error
}

// Item is a vector to index. ID is the caller's identity (a record url); Metadata is stored
// alongside and returned with hits.
type Item struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

// VectorResult is a single vector search hit.
type VectorResult struct {
	ID       string
	Score    float64 // cosine similarity in [-1, 1]
	Metadata map[string]any
}
