package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/pkg/utils"
)

// SharedCache is a cache tier shared between processes, keyed by model id and text.
type SharedCache interface {
	Get(ctx context.Context, modelID, text string) ([]float32, bool, error)
	Set(ctx context.Context, modelID, text string, vec []float32) error
}

// CachedEmbedder puts an in-process LRU, and optionally a shared cache, in front of an Embedder.
// Shared cache failures are logged and treated as misses.
type CachedEmbedder struct {
	base   Embedder
	lru    *EmbeddingCache
	shared SharedCache
	logger *zap.Logger
}

// CachedOption configures a CachedEmbedder.
type CachedOption func(*CachedEmbedder)

// WithSharedCache adds a second cache tier consulted after the LRU.
func WithSharedCache(s SharedCache) CachedOption {
	return func(c *CachedEmbedder) {
		c.shared = s
	}
}

// WithCacheLogger sets the logger used for shared cache failures.
func WithCacheLogger(l *zap.Logger) CachedOption {
	return func(c *CachedEmbedder) {
		c.logger = l
	}
}

// NewCachedEmbedder wraps base with an LRU of the given capacity.
func NewCachedEmbedder(base Embedder, capacity int, opts ...CachedOption) *CachedEmbedder {
	c := &CachedEmbedder{base: base, lru: NewEmbeddingCache(capacity)}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = utils.OrNop(c.logger)
	return c
}

func (c *CachedEmbedder) lookup(ctx context.Context, text string) ([]float32, bool) {
	if v, ok := c.lru.Get(text); ok {
		return cloneVector(v), true
	}
	if c.shared == nil {
		return nil, false
	}
	v, ok, err := c.shared.Get(ctx, c.base.ModelID(), text)
	if err != nil {
		c.logger.Warn("shared embedding cache get failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	c.lru.Set(text, cloneVector(v))
	return v, true
}

func (c *CachedEmbedder) store(ctx context.Context, text string, vec []float32) {
	c.lru.Set(text, cloneVector(vec))
	if c.shared == nil {
		return
	}
	if err := c.shared.Set(ctx, c.base.ModelID(), text, vec); err != nil {
		c.logger.Warn("shared embedding cache set failed", zap.Error(err))
	}
}

// Embed returns the cached vector for text or computes and caches it.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.lookup(ctx, text); ok {
		return v, nil
	}
	vec, err := c.base.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, text, vec)
	return vec, nil
}

// EmbedBatch serves hits from cache and sends only the misses to the base embedder, in one batch.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		if v, ok := c.lookup(ctx, t); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	vecs, err := c.base.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIdx {
		out[idx] = vecs[j]
		c.store(ctx, missTexts[j], vecs[j])
	}
	return out, nil
}

// Dimensions returns the base embedder's dimension.
func (c *CachedEmbedder) Dimensions() int {
	return c.base.Dimensions()
}

// ModelID returns the base embedder's model id.
func (c *CachedEmbedder) ModelID() string {
	return c.base.ModelID()
}

// Close closes the base embedder.
func (c *CachedEmbedder) Close() error {
	return c.base.Close()
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
