package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryIndex is an in-memory vector index using brute-force cosine similarity.
// Adding an existing ID replaces its vector in place, keeping its original position.
type MemoryIndex struct {
	dimensions int
	items      []Item
	pos        map[string]int
	mu         sync.RWMutex
}

// NewMemoryIndex creates an in-memory vector index with the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{
		dimensions: dimensions,
		pos:        make(map[string]int),
	}, nil
}

// Type returns the index type identifier.
func (m *MemoryIndex) Type() string {
	return string(IndexTypeMemory)
}

// Dimensions returns the vector dimension.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Add stores items. Vectors are copied.
func (m *MemoryIndex) Add(ctx context.Context, items []Item) error {
	for _, it := range items {
		if len(it.Vector) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch for %s: got %d, expected %d", it.ID, len(it.Vector), m.dimensions)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		vec := make([]float32, m.dimensions)
		copy(vec, it.Vector)
		stored := Item{ID: it.ID, Vector: vec, Metadata: it.Metadata}
		if i, ok := m.pos[it.ID]; ok {
			m.items[i] = stored
			continue
		}
		m.pos[it.ID] = len(m.items)
		m.items = append(m.items, stored)
	}
	return nil
}

// Search returns the top-k items by cosine similarity.
// Ties are broken by insertion order.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), m.dimensions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.items) == 0 {
		return nil, nil
	}
	scores := make([]float64, len(m.items))
	order := make([]int, len(m.items))
	for i := range m.items {
		scores[i] = Cosine(query, m.items[i].Vector)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	if k > len(order) {
		k = len(order)
	}
	result := make([]*VectorResult, k)
	for r := 0; r < k; r++ {
		it := m.items[order[r]]
		result[r] = &VectorResult{ID: it.ID, Score: scores[order[r]], Metadata: it.Metadata}
	}
	return result, nil
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
