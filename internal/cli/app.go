package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/internal/embedding"
	"github.com/hyperjump/sentaku/internal/indexer"
	"github.com/hyperjump/sentaku/internal/keyword"
	"github.com/hyperjump/sentaku/internal/retrieval"
	"github.com/hyperjump/sentaku/internal/search"
	"github.com/hyperjump/sentaku/internal/storage"
	"github.com/hyperjump/sentaku/internal/vector"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// App holds initialized services.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Embedder embedding.Embedder
	Query    *embedding.CachedEmbedder
	Store    *storage.SQLiteStore
	Indexer  *indexer.Indexer
	Engine   *search.Engine
	Keyword  *keyword.BleveIndex

	redis    *embedding.RedisCache
	reloadMu sync.Mutex
}

// AppOption customizes NewApp.
type AppOption func(*appOptions)

type appOptions struct {
	embedder embedding.Embedder
	progress io.Writer
	keyword  bool
}

// WithEmbedder replaces the configured embedding provider.
func WithEmbedder(e embedding.Embedder) AppOption {
	return func(o *appOptions) { o.embedder = e }
}

// WithIndexProgress draws a progress bar on w while the catalog is embedded.
func WithIndexProgress(w io.Writer) AppOption {
	return func(o *appOptions) { o.progress = w }
}

// WithKeywordLookup opens the keyword index over the catalog.
func WithKeywordLookup() AppOption {
	return func(o *appOptions) { o.keyword = true }
}

// NewApp builds the embedder, snapshot store, indexer and engine. The engine starts with an
// empty corpus; call Reload to load the catalog.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...AppOption) (*App, error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger = utils.OrNop(logger)
	app := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	emb := o.embedder
	if emb == nil {
		var err error
		emb, err = embedding.New(ctx, embeddingOptions(&cfg.Embedding))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
	}
	app.Embedder = emb
	logger.Info("embedder initialized",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", emb.ModelID()),
		zap.Int("dimensions", emb.Dimensions()),
	)

	cacheOpts := []embedding.CachedOption{embedding.WithCacheLogger(logger)}
	if cfg.Cache.RedisAddr != "" {
		rc, err := embedding.NewRedisCacheFromAddr(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisTTL)
		if err != nil {
			logger.Warn("redis cache disabled", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		} else {
			app.redis = rc
			cacheOpts = append(cacheOpts, embedding.WithSharedCache(rc))
		}
	}
	app.Query = embedding.NewCachedEmbedder(emb, cfg.Cache.Size, cacheOpts...)

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.Store = store

	idxOpts := []indexer.IndexerOption{
		indexer.WithLogger(logger),
		indexer.WithStore(store),
		indexer.WithBatchSize(cfg.Embedding.BatchSize),
		indexer.WithRetryPolicy(cfg.Search.RetryPolicy()),
	}
	if o.progress != nil {
		idxOpts = append(idxOpts, indexer.WithProgress(o.progress))
	}
	app.Indexer = indexer.NewIndexer(emb, idxOpts...)

	if o.keyword {
		kw, err := keyword.NewBleveIndex(cfg.Storage.KeywordIndexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
		}
		app.Keyword = kw
	}

	r := retrieval.NewRetriever(app.Query,
		retrieval.WithLogger(logger),
		retrieval.WithRetryPolicy(cfg.Search.RetryPolicy()),
		retrieval.WithTimeout(cfg.Search.RetrievalTimeout),
	)
	app.Engine = search.NewEngine(r, nil, &cfg.Search, logger)
	ok = true
	return app, nil
}

func embeddingOptions(ec *config.EmbeddingConfig) embedding.Options {
	return embedding.Options{
		Provider:   ec.Provider,
		Model:      ec.Model,
		Dimensions: ec.Dimensions,
		APIKey:     ec.APIKey(),
		BaseURL:    ec.BaseURL,
		Timeout:    ec.Timeout,
		ONNX: embedding.ONNXConfig{
			ModelPath:         ec.ModelPath,
			TokenizerPath:     ec.TokenizerPath,
			SharedLibraryPath: ec.SharedLibraryPath,
			ModelID:           ec.Model,
			Dimensions:        ec.Dimensions,
			MaxTokens:         ec.MaxTokens,
		},
	}
}

// QdrantIndex returns a client for the configured collection.
func (a *App) QdrantIndex() (*vector.QdrantIndex, error) {
	qc := a.qdrantConfig()
	qc.Dimensions = a.Embedder.Dimensions()
	return vector.NewQdrantIndex(qc)
}

func (a *App) qdrantConfig() vector.QdrantConfig {
	vc := a.Config.Vector
	return vector.QdrantConfig{
		URL:        vc.QdrantURL,
		APIKey:     vc.QdrantAPIKey,
		Collection: vc.Collection,
		Timeout:    vc.Timeout,
	}
}

// BuildCorpus turns a catalog into a searchable snapshot using the configured vector index.
// The memory index embeds the catalog locally, reusing the stored snapshot. The qdrant index
// expects `sentaku ingest` to have filled the collection.
func (a *App) BuildCorpus(ctx context.Context, cat *catalog.Catalog) (*retrieval.Corpus, error) {
	index, err := vector.NewVectorIndex(a.Config.Vector.Type, a.Embedder.Dimensions(), a.qdrantConfig())
	if err != nil {
		return nil, err
	}
	if index.Type() == string(vector.IndexTypeQdrant) {
		return &retrieval.Corpus{Catalog: cat, Index: index}, nil
	}
	corpus, _, err := a.Indexer.Populate(ctx, cat, index)
	if err != nil {
		return nil, err
	}
	return corpus, nil
}

// Reload reads the catalog file, builds a new snapshot and publishes it to the engine.
// A missing catalog file yields an empty snapshot. On error the current snapshot stays.
func (a *App) Reload(ctx context.Context) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	cat, err := catalog.LoadOrEmpty(a.Config.Catalog.Path, a.Logger)
	if err != nil {
		return err
	}
	corpus, err := a.BuildCorpus(ctx, cat)
	if err != nil {
		return err
	}
	if a.Keyword != nil {
		if err := a.Keyword.Sync(ctx, cat); err != nil {
			a.Logger.Warn("keyword index sync failed", zap.Error(err))
		}
	}
	// The previous snapshot is left to in-flight searches and not closed.
	a.Engine.Swap(corpus)
	a.Logger.Info("corpus published",
		zap.String("path", a.Config.Catalog.Path),
		zap.Int("assessments", cat.Len()),
		zap.String("index", a.Config.Vector.Type),
	)
	return nil
}

// Close releases all resources.
func (a *App) Close() {
	if a.Engine != nil {
		_ = a.Engine.Corpus().Close()
	}
	if a.Keyword != nil {
		_ = a.Keyword.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
}
