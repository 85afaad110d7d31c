// Package indexer embeds the catalog and loads the vectors into a vector index.
package indexer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/embedding"
	"github.com/hyperjump/sentaku/internal/retrieval"
	"github.com/hyperjump/sentaku/internal/retry"
	"github.com/hyperjump/sentaku/internal/storage"
	"github.com/hyperjump/sentaku/internal/vector"
	"github.com/hyperjump/sentaku/pkg/utils"
)

const defaultBatchSize = 32

// Stats summarizes one indexing run.
type Stats struct {
	Records  int
	Reused   int
	Embedded int
	Pruned   int
	Duration time.Duration
}

// Indexer embeds catalog records, reusing snapshot vectors when the model and text are unchanged.
type Indexer struct {
	embedder  embedding.Embedder
	store     storage.SnapshotStore
	batchSize int
	policy    retry.Policy
	progress  io.Writer
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithStore enables snapshot reuse and persistence.
func WithStore(s storage.SnapshotStore) IndexerOption {
	return func(idx *Indexer) { idx.store = s }
}

// WithBatchSize sets how many texts are sent to the embedder at once.
func WithBatchSize(n int) IndexerOption {
	return func(idx *Indexer) {
		if n > 0 {
			idx.batchSize = n
		}
	}
}

// WithRetryPolicy sets the backoff policy for embedding batches.
func WithRetryPolicy(p retry.Policy) IndexerOption {
	return func(idx *Indexer) { idx.policy = p }
}

// WithProgress draws a progress bar on w while embedding.
func WithProgress(w io.Writer) IndexerOption {
	return func(idx *Indexer) { idx.progress = w }
}

// NewIndexer creates an indexer for embedder.
func NewIndexer(embedder embedding.Embedder, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		embedder:  embedder,
		batchSize: defaultBatchSize,
		policy:    retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = utils.OrNop(idx.logger)
	return idx
}

// Embed returns one vector per catalog record, in catalog order.
// Snapshot vectors are reused when their text hash matches; new vectors are saved back
// and vectors of records no longer in the catalog are pruned.
func (idx *Indexer) Embed(ctx context.Context, cat *catalog.Catalog) ([]storage.StoredVector, *Stats, error) {
	start := time.Now()
	records := cat.Records()
	modelID := idx.embedder.ModelID()
	stats := &Stats{Records: len(records)}

	var stored map[string]storage.StoredVector
	if idx.store != nil {
		var err error
		stored, err = idx.store.LoadVectors(ctx, modelID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}

	out := make([]storage.StoredVector, len(records))
	var pending []int
	for i, rec := range records {
		text := catalog.CorpusText(rec)
		hash := catalog.TextHash(text)
		out[i] = storage.StoredVector{URL: rec.URL, TextHash: hash}
		if sv, ok := stored[rec.URL]; ok && sv.TextHash == hash && len(sv.Vector) == idx.embedder.Dimensions() {
			out[i].Vector = sv.Vector
			stats.Reused++
			continue
		}
		pending = append(pending, i)
	}

	bar := idx.newBar(len(pending))
	fresh := make([]storage.StoredVector, 0, len(pending))
	for lo := 0; lo < len(pending); lo += idx.batchSize {
		hi := min(lo+idx.batchSize, len(pending))
		texts := make([]string, 0, hi-lo)
		for _, i := range pending[lo:hi] {
			texts = append(texts, catalog.CorpusText(records[i]))
		}

		var vecs [][]float32
		err := retry.Do(ctx, idx.policy, func() error {
			v, err := idx.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return err
			}
			vecs = v
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vecs) != len(texts) {
			return nil, nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
		}
		for j, i := range pending[lo:hi] {
			out[i].Vector = vecs[j]
			fresh = append(fresh, out[i])
		}
		stats.Embedded += len(texts)
		if bar != nil {
			_ = bar.Add(len(texts))
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if idx.store != nil {
		if len(fresh) > 0 || len(stored) == 0 {
			if err := idx.store.SaveVectors(ctx, modelID, idx.embedder.Dimensions(), fresh); err != nil {
				return nil, nil, fmt.Errorf("failed to save snapshot: %w", err)
			}
		}
		keep := make([]string, len(records))
		for i, rec := range records {
			keep[i] = rec.URL
		}
		pruned, err := idx.store.Prune(ctx, modelID, keep)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to prune snapshot: %w", err)
		}
		stats.Pruned = pruned
	}

	stats.Duration = time.Since(start)
	idx.logger.Info("catalog embedded",
		zap.String("model", modelID),
		zap.Int("records", stats.Records),
		zap.Int("reused", stats.Reused),
		zap.Int("embedded", stats.Embedded),
		zap.Int("pruned", stats.Pruned),
		zap.Duration("duration", stats.Duration),
	)
	return out, stats, nil
}

// BuildCorpus embeds the catalog into a fresh in-memory index and returns the snapshot.
func (idx *Indexer) BuildCorpus(ctx context.Context, cat *catalog.Catalog) (*retrieval.Corpus, *Stats, error) {
	mem, err := vector.NewVectorIndex(string(vector.IndexTypeMemory), idx.embedder.Dimensions(), vector.QdrantConfig{})
	if err != nil {
		return nil, nil, err
	}
	return idx.Populate(ctx, cat, mem)
}

// Populate embeds the catalog, adds every vector to index and returns the snapshot over it.
func (idx *Indexer) Populate(ctx context.Context, cat *catalog.Catalog, index vector.VectorIndex) (*retrieval.Corpus, *Stats, error) {
	vecs, stats, err := idx.Embed(ctx, cat)
	if err != nil {
		return nil, nil, err
	}
	if err := index.Add(ctx, idx.items(cat, vecs)); err != nil {
		return nil, nil, fmt.Errorf("failed to index vectors: %w", err)
	}
	return &retrieval.Corpus{Catalog: cat, Index: index, ModelID: idx.embedder.ModelID()}, stats, nil
}

func (idx *Indexer) items(cat *catalog.Catalog, vecs []storage.StoredVector) []vector.Item {
	modelID := idx.embedder.ModelID()
	items := make([]vector.Item, len(vecs))
	for i, v := range vecs {
		rec, _ := cat.At(i)
		items[i] = vector.Item{ID: v.URL, Vector: v.Vector, Metadata: Payload(rec, i, modelID)}
	}
	return items
}

func (idx *Indexer) newBar(n int) *progressbar.ProgressBar {
	if idx.progress == nil || n == 0 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(idx.progress),
		progressbar.OptionSetDescription("embedding catalog"),
		progressbar.OptionShowCount(),
	)
}
