// Package embedding turns text into vectors: a local ONNX model, hosted providers, and caches.
package embedding

import "context"

// Embedder produces vector embeddings for text.
// ModelID identifies the model so corpus and query vectors can be checked for compatibility.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelID() string
	Close() error
}
