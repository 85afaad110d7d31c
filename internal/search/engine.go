// Package search provides the recommendation engine: retrieval followed by category balancing.
package search

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/internal/observability"
	"github.com/hyperjump/sentaku/internal/ranking"
	"github.com/hyperjump/sentaku/internal/retrieval"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// Result is a search with its diagnostics.
type Result struct {
	Items    []models.ResultItem
	Status   retrieval.Status
	Pool     int
	Decision ranking.Decision
	Err      error
	Duration time.Duration
}

// Engine answers recommendation queries against the current corpus snapshot.
type Engine struct {
	retriever *retrieval.Retriever
	balancer  *ranking.Balancer
	config    *config.SearchConfig
	logger    *zap.Logger

	corpus  atomic.Pointer[retrieval.Corpus]
	healthy atomic.Bool
}

// NewEngine creates an engine. A nil corpus starts the engine with an empty snapshot.
func NewEngine(
	retriever *retrieval.Retriever,
	corpus *retrieval.Corpus,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	if cfg == nil {
		cfg = &config.SearchConfig{}
		cfg.Balance.ApplyDefaults()
	}
	if corpus == nil {
		corpus = retrieval.EmptyCorpus()
	}
	balance := cfg.Balance
	e := &Engine{
		retriever: retriever,
		balancer:  ranking.NewBalancer(&balance),
		config:    cfg,
		logger:    utils.OrNop(logger),
	}
	e.corpus.Store(corpus)
	e.healthy.Store(true)
	return e
}

// Search returns at most limit recommendations. Backend failures yield an empty list;
// Healthy reports them.
func (e *Engine) Search(ctx context.Context, query string, limit int) []models.ResultItem {
	return e.SearchDetailed(ctx, query, limit).Items
}

// SearchDetailed is Search with the retrieval status and balancing decision.
func (e *Engine) SearchDetailed(ctx context.Context, query string, limit int) *Result {
	start := time.Now()
	res := &Result{Items: []models.ResultItem{}, Status: retrieval.StatusEmpty}
	defer func() {
		res.Duration = time.Since(start)
		observability.SearchRequestsTotal.WithLabelValues(string(res.Status)).Inc()
		observability.SearchDuration.Observe(res.Duration.Seconds())
	}()

	q, ok := ProcessQuery(query, e.config.MaxQueryChars)
	if !ok || limit <= 0 {
		return res
	}

	corpus := e.corpus.Load()
	pool := retrieval.PoolSize(e.config.PoolSize, limit)
	out := e.retriever.Retrieve(ctx, corpus, q, pool)
	e.healthy.Store(out.Reachable())
	observability.RetrievalOutcomesTotal.WithLabelValues(string(out.Status)).Inc()

	res.Status = out.Status
	res.Err = out.Err
	res.Pool = len(out.Candidates)
	if out.Status == retrieval.StatusUnavailable {
		e.logger.Warn("retrieval unavailable",
			zap.Int("query_len", len(q)),
			zap.Int("limit", limit),
			zap.String("outcome", string(out.Status)),
			zap.Error(out.Err),
		)
		return res
	}

	res.Items, res.Decision = e.balancer.Balance(out.Candidates, q, limit)
	if res.Decision.BothPresent {
		observability.BalanceInterleavedTotal.WithLabelValues(boolLabel(res.Decision.Interleaved)).Inc()
	}
	e.logger.Debug("search completed",
		zap.Int("query_len", len(q)),
		zap.Int("limit", limit),
		zap.Int("pool", res.Pool),
		zap.String("outcome", string(out.Status)),
		zap.Bool("interleaved", res.Decision.Interleaved),
		zap.Duration("duration", time.Since(start)),
	)
	return res
}

// Healthy reports whether the last retrieval reached the embedding provider and the index.
func (e *Engine) Healthy() bool {
	return e.healthy.Load()
}

// Corpus returns the current snapshot.
func (e *Engine) Corpus() *retrieval.Corpus {
	return e.corpus.Load()
}

// Swap publishes a new snapshot and returns the previous one.
// Searches already running keep the snapshot they started with.
func (e *Engine) Swap(c *retrieval.Corpus) *retrieval.Corpus {
	if c == nil {
		c = retrieval.EmptyCorpus()
	}
	return e.corpus.Swap(c)
}

// ModelID returns the query embedder's model id.
func (e *Engine) ModelID() string {
	return e.retriever.ModelID()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
