// Package retrieval embeds a query and fetches a scored, categorized candidate pool.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/embedding"
	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/internal/retry"
	"github.com/hyperjump/sentaku/internal/vector"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// MetadataModelKey is the index payload field naming the model that produced a vector.
const MetadataModelKey = "embedding_model"

// Retriever turns a query into a candidate pool using an embedder and a corpus index.
type Retriever struct {
	embedder embedding.Embedder
	policy   retry.Policy
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithRetryPolicy sets the backoff policy for embedding and index calls.
func WithRetryPolicy(p retry.Policy) Option {
	return func(r *Retriever) {
		r.policy = p
	}
}

// WithTimeout bounds a whole retrieval, retries included. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Retriever) {
		r.logger = l
	}
}

// NewRetriever returns a retriever using embedder for queries.
func NewRetriever(embedder embedding.Embedder, opts ...Option) *Retriever {
	r := &Retriever{embedder: embedder, policy: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = utils.OrNop(r.logger)
	return r
}

// ModelID returns the query embedder's model id.
func (r *Retriever) ModelID() string {
	return r.embedder.ModelID()
}

// Retrieve returns up to poolSize candidates ordered by score descending, ties by corpus ordinal.
// An empty corpus yields StatusEmpty without touching the backends.
func (r *Retriever) Retrieve(ctx context.Context, corpus *Corpus, query string, poolSize int) Outcome {
	if corpus.Len() == 0 || corpus.Index == nil || poolSize <= 0 {
		return Outcome{Status: StatusEmpty}
	}
	if corpus.ModelID != "" && corpus.ModelID != r.embedder.ModelID() {
		return unavailable(ErrModelMismatch,
			fmt.Errorf("corpus built with %s, query embedder is %s", corpus.ModelID, r.embedder.ModelID()))
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var qvec []float32
	err := retry.Do(ctx, r.policy, func() error {
		v, err := r.embedder.Embed(ctx, query)
		if err != nil {
			return err
		}
		qvec = v
		return nil
	})
	if err != nil {
		r.logger.Warn("query embedding failed", zap.Error(err), zap.String("model", r.embedder.ModelID()))
		return unavailable(ErrEmbeddingUnavailable, err)
	}

	var hits []*vector.VectorResult
	err = retry.Do(ctx, r.policy, func() error {
		res, err := corpus.Index.Search(ctx, qvec, poolSize)
		if err != nil {
			return err
		}
		hits = res
		return nil
	})
	if err != nil {
		r.logger.Warn("vector search failed", zap.Error(err), zap.String("index", corpus.Index.Type()))
		return unavailable(ErrIndexUnavailable, err)
	}

	candidates := make([]models.ScoredCandidate, 0, len(hits))
	for _, h := range hits {
		if m, ok := h.Metadata[MetadataModelKey].(string); ok && m != r.embedder.ModelID() {
			return unavailable(ErrModelMismatch,
				fmt.Errorf("index vector for %s was produced by %s, query embedder is %s", h.ID, m, r.embedder.ModelID()))
		}
		rec, ordinal, ok := corpus.Catalog.Lookup(h.ID)
		if !ok {
			r.logger.Debug("index hit not in catalog, skipping", zap.String("url", h.ID))
			continue
		}
		candidates = append(candidates, models.ScoredCandidate{
			Record:   rec,
			Score:    h.Score,
			Category: rec.Category,
			Ordinal:  ordinal,
		})
	}
	SortCandidates(candidates)
	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}
	if len(candidates) == 0 {
		return Outcome{Status: StatusEmpty}
	}
	return Outcome{Status: StatusOK, Candidates: candidates}
}

// SortCandidates orders by score descending, then corpus ordinal ascending.
func SortCandidates(c []models.ScoredCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Score != c[j].Score {
			return c[i].Score > c[j].Score
		}
		return c[i].Ordinal < c[j].Ordinal
	})
}

// PoolSize returns max(configured, 2*limit).
func PoolSize(configured, limit int) int {
	if p := 2 * limit; p > configured {
		return p
	}
	return configured
}
