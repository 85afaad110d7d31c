package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/embedding"
	"github.com/hyperjump/sentaku/internal/indexer"
	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/internal/ranking"
	"github.com/hyperjump/sentaku/internal/retrieval"
	"github.com/hyperjump/sentaku/internal/search"
	"github.com/hyperjump/sentaku/internal/vector"
)

var testTypes = []string{"K", "P", "A", "K, S", "B, C", "S", "P, B", "E"}

func benchCatalog(n int) *catalog.Catalog {
	recs := make([]models.AssessmentRecord, n)
	for i := range recs {
		recs[i] = models.AssessmentRecord{
			Name:        fmt.Sprintf("Assessment %d", i),
			URL:         fmt.Sprintf("https://example.com/assessment-%d/", i),
			Description: fmt.Sprintf("Measures skill number %d for hiring decisions", i),
			TestType:    testTypes[i%len(testTypes)],
		}
	}
	return catalog.New(recs, nil)
}

func BenchmarkBalance(b *testing.B) {
	cat := benchCatalog(30)
	cands := make([]models.ScoredCandidate, cat.Len())
	for i, rec := range cat.Records() {
		cands[i] = models.ScoredCandidate{Record: rec, Score: 1 - float64(i)/100, Category: rec.Category, Ordinal: i}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ranking.Balance(cands, "analyst who can lead a team", 10)
	}
}

func BenchmarkMemoryIndexSearch(b *testing.B) {
	idx, _ := vector.NewMemoryIndex(384)
	ctx := context.Background()
	items := make([]vector.Item, 1000)
	for i := range items {
		v := make([]float32, 384)
		v[0] = float32(i) / 1000
		v[1] = 1
		items[i] = vector.Item{ID: fmt.Sprintf("id-%d", i), Vector: v}
	}
	_ = idx.Add(ctx, items)
	query := make([]float32, 384)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 30)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}

func BenchmarkEngineSearch(b *testing.B) {
	ctx := context.Background()
	emb := embedding.NewMockEmbedder(384)
	corpus, _, err := indexer.NewIndexer(emb).BuildCorpus(ctx, benchCatalog(500))
	if err != nil {
		b.Fatal(err)
	}
	engine := search.NewEngine(retrieval.NewRetriever(embedding.NewCachedEmbedder(emb, 1000)), corpus, nil, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Search(ctx, "Java developer who collaborates with business teams", 10)
	}
}
