package vector

import "fmt"

// IndexType represents the type of vector index to use.
type IndexType string

const (
	// IndexTypeMemory uses in-memory brute-force search over the local snapshot.
	IndexTypeMemory IndexType = "memory"
	// IndexTypeQdrant searches a hosted Qdrant collection filled by `sentaku ingest`.
	IndexTypeQdrant IndexType = "qdrant"
)

// NewVectorIndex creates a vector index of the specified type.
// Supported types: "memory" (default), "qdrant".
func NewVectorIndex(indexType string, dimensions int, qcfg QdrantConfig) (VectorIndex, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	case IndexTypeQdrant:
		qcfg.Dimensions = dimensions
		return NewQdrantIndex(qcfg)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory, qdrant)", indexType)
	}
}
