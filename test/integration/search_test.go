// Package integration provides pipeline tests over real storage and indices.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/internal/embedding"
	"github.com/hyperjump/sentaku/internal/indexer"
	"github.com/hyperjump/sentaku/internal/keyword"
	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/internal/retrieval"
	"github.com/hyperjump/sentaku/internal/search"
	"github.com/hyperjump/sentaku/internal/storage"
)

var records = []models.AssessmentRecord{
	{Name: "Core Java (Advanced Level)", URL: "https://example.com/core-java-advanced/", Description: "Java classes, collections and concurrency", TestType: "K"},
	{Name: "Python (New)", URL: "https://example.com/python-new/", Description: "Python programming", TestType: "K"},
	{Name: "Occupational Personality Questionnaire OPQ32r", URL: "https://example.com/opq32r/", Description: "Behavioural styles at work", TestType: "P"},
	{Name: "Verify Interactive G+", URL: "https://example.com/verify-g-plus/", Description: "General ability", TestType: "A"},
	{Name: "Entry Level Sales 7.1", URL: "https://example.com/entry-level-sales/", Description: "Sales solution", TestType: "A, B, P"},
	{Name: "Automata SQL", URL: "https://example.com/automata-sql/", Description: "SQL coding simulation", TestType: "S"},
}

func TestIntegration_Search(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "db.sqlite")
	cfg.Storage.KeywordIndexPath = filepath.Join(dir, "bleve")
	ctx := context.Background()

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	embedder := embedding.NewMockEmbedder(8)
	defer embedder.Close()

	kwIndex, err := keyword.NewBleveIndex(cfg.Storage.KeywordIndexPath)
	if err != nil {
		t.Fatal(err)
	}
	defer kwIndex.Close()

	cat := catalog.New(records, nil)
	idx := indexer.NewIndexer(embedder, indexer.WithStore(store))
	corpus, stats, err := idx.BuildCorpus(ctx, cat)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Embedded != len(records) {
		t.Errorf("embedded %d, want %d", stats.Embedded, len(records))
	}
	if err := kwIndex.Sync(ctx, cat); err != nil {
		t.Fatal(err)
	}

	engine := search.NewEngine(retrieval.NewRetriever(embedding.NewCachedEmbedder(embedder, 100)), corpus, &cfg.Search, nil)

	res := engine.SearchDetailed(ctx, "Java developer who is also a good team player", 4)
	if res.Status != retrieval.StatusOK {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	if len(res.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(res.Items))
	}
	if !res.Decision.NeedsSoft || !res.Decision.Interleaved {
		t.Errorf("decision = %+v, want soft intent to interleave", res.Decision)
	}
	if res.Items[0].Category != models.CategoryHard || res.Items[1].Category != models.CategorySoft {
		t.Errorf("interleave should start hard then soft, got %s, %s", res.Items[0].Category, res.Items[1].Category)
	}

	hits, err := kwIndex.Search(ctx, "python", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].ID != "https://example.com/python-new/" {
		t.Errorf("keyword hits = %+v", hits)
	}

	// A second build over the same store reuses every vector.
	_, stats, err = indexer.NewIndexer(embedder, indexer.WithStore(store)).BuildCorpus(ctx, cat)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Reused != len(records) || stats.Embedded != 0 {
		t.Errorf("rebuild: reused=%d embedded=%d", stats.Reused, stats.Embedded)
	}
}
