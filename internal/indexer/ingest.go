package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/internal/retrieval"
	"github.com/hyperjump/sentaku/internal/retry"
	"github.com/hyperjump/sentaku/internal/vector"
)

const ingestBatchSize = 64

// collectionEnsurer is implemented by indexes that must create their collection before use.
type collectionEnsurer interface {
	EnsureCollection(ctx context.Context) error
}

// Payload is the metadata stored with a record's vector.
func Payload(rec *models.AssessmentRecord, ordinal int, modelID string) map[string]any {
	p := map[string]any{
		"ordinal":                  ordinal,
		retrieval.MetadataModelKey: modelID,
	}
	if rec == nil {
		return p
	}
	p["assessment_name"] = rec.Name
	p["assessment_url"] = rec.URL
	p["description"] = rec.Description
	p["test_type"] = rec.TestType
	p["duration"] = rec.Duration
	p["remote_testing"] = rec.RemoteTesting
	p["adaptive_irt"] = rec.AdaptiveIRT
	p["category"] = string(rec.Category)
	return p
}

// Ingest embeds the catalog and upserts every record into index.
// The collection is created first when the index supports it.
func (idx *Indexer) Ingest(ctx context.Context, cat *catalog.Catalog, index vector.VectorIndex) (*Stats, error) {
	if ens, ok := index.(collectionEnsurer); ok {
		err := retry.Do(ctx, idx.policy, func() error {
			return ens.EnsureCollection(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure collection: %w", err)
		}
	}

	vecs, stats, err := idx.Embed(ctx, cat)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	items := idx.items(cat, vecs)
	for lo := 0; lo < len(items); lo += ingestBatchSize {
		batch := items[lo:min(lo+ingestBatchSize, len(items))]
		err := retry.Do(ctx, idx.policy, func() error {
			return index.Add(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert batch at %d: %w", lo, err)
		}
	}
	stats.Duration += time.Since(start)
	idx.logger.Info("catalog ingested",
		zap.String("index", index.Type()),
		zap.String("model", idx.embedder.ModelID()),
		zap.Int("records", len(items)),
	)
	return stats, nil
}
