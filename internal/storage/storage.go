// Package storage persists corpus embeddings so they are not recomputed on every start.
package storage

import (
	"context"
	"time"
)

// StoredVector is one corpus embedding keyed by record url.
// TextHash identifies the exact text that was embedded.
type StoredVector struct {
	URL      string
	TextHash string
	Vector   []float32
}

// Manifest records which model produced a snapshot.
type Manifest struct {
	ModelID    string    `json:"model_id"`
	Dimensions int       `json:"dimensions"`
	Records    int       `json:"records"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SnapshotStore stores embeddings per model id. Vectors of different models never mix.
type SnapshotStore interface {
	// Manifest returns the manifest for modelID, or nil if none exists.
	Manifest(ctx context.Context, modelID string) (*Manifest, error)
	// LatestManifest returns the most recently updated manifest, or nil.
	LatestManifest(ctx context.Context) (*Manifest, error)
	// LoadVectors returns all stored vectors for modelID keyed by url.
	LoadVectors(ctx context.Context, modelID string) (map[string]StoredVector, error)
	// SaveVectors upserts vectors for modelID and refreshes its manifest.
	SaveVectors(ctx context.Context, modelID string, dimensions int, vecs []StoredVector) error
	// Prune deletes vectors for modelID whose url is not in keep. Returns the number removed.
	Prune(ctx context.Context, modelID string, keep []string) (int, error)
	Close() error
}
