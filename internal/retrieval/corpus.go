package retrieval

import (
	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/vector"
)

// Corpus is an immutable snapshot: the catalog and the index holding its vectors.
// ModelID is the embedder that produced the vectors; empty means unchecked.
type Corpus struct {
	Catalog *catalog.Catalog
	Index   vector.VectorIndex
	ModelID string
}

// EmptyCorpus returns a corpus with no records and no index.
func EmptyCorpus() *Corpus {
	return &Corpus{Catalog: catalog.Empty()}
}

// Len returns the number of catalog records.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return c.Catalog.Len()
}

// Close closes the index, if any.
func (c *Corpus) Close() error {
	if c == nil || c.Index == nil {
		return nil
	}
	return c.Index.Close()
}
