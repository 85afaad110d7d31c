package keyword

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/models"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.AssessmentRecord{
		{Name: "Java 8 (New)", URL: "https://example.com/java-8-new/", Description: "Multi-choice test of Java programming", TestType: "K"},
		{Name: "Occupational Personality Questionnaire OPQ32r", URL: "https://example.com/opq32r/", Description: "Personality at work", TestType: "P"},
		{Name: "Verify Numerical Reasoning", URL: "https://example.com/verify-numerical/", Description: "Numerical ability with Java-free tasks", TestType: "A"},
	}, nil)
}

func newMemIndex(t *testing.T) *BleveIndex {
	t.Helper()
	idx, err := NewBleveIndex("")
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestBleveIndex_SyncAndSearch(t *testing.T) {
	ctx := context.Background()
	idx := newMemIndex(t)
	if err := idx.Sync(ctx, testCatalog()); err != nil {
		t.Fatal(err)
	}
	if n, _ := idx.DocCount(); n != 3 {
		t.Fatalf("DocCount = %d, want 3", n)
	}

	results, err := idx.Search(ctx, "personality", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].ID != "https://example.com/opq32r/" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestBleveIndex_NameBoost(t *testing.T) {
	ctx := context.Background()
	idx := newMemIndex(t)
	if err := idx.Sync(ctx, testCatalog()); err != nil {
		t.Fatal(err)
	}
	results, err := idx.Search(ctx, "java", 10, &SearchOptions{NameBoost: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) < 2 {
		t.Fatalf("expected name and description matches, got %+v", results)
	}
	if results[0].ID != "https://example.com/java-8-new/" {
		t.Errorf("name match should rank first, got %s", results[0].ID)
	}
}

func TestBleveIndex_Fuzzy(t *testing.T) {
	ctx := context.Background()
	idx := newMemIndex(t)
	if err := idx.Sync(ctx, testCatalog()); err != nil {
		t.Fatal(err)
	}
	exact, err := idx.Search(ctx, "numericl", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 0 {
		t.Errorf("typo should not match without fuzzy: %+v", exact)
	}
	fuzzy, err := idx.Search(ctx, "numericl", 10, &SearchOptions{FuzzyEnabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(fuzzy) == 0 || fuzzy[0].ID != "https://example.com/verify-numerical/" {
		t.Errorf("fuzzy search should find numerical: %+v", fuzzy)
	}
}

func TestBleveIndex_SyncRemovesStale(t *testing.T) {
	ctx := context.Background()
	idx := newMemIndex(t)
	if err := idx.Sync(ctx, testCatalog()); err != nil {
		t.Fatal(err)
	}
	one := catalog.New([]models.AssessmentRecord{*testCatalog().Records()[0]}, nil)
	if err := idx.Sync(ctx, one); err != nil {
		t.Fatal(err)
	}
	if n, _ := idx.DocCount(); n != 1 {
		t.Errorf("DocCount = %d after sync, want 1", n)
	}
	results, _ := idx.Search(ctx, "personality", 10, nil)
	if len(results) != 0 {
		t.Errorf("stale record still searchable: %+v", results)
	}
}

func TestBleveIndex_IndexDelete(t *testing.T) {
	ctx := context.Background()
	idx := newMemIndex(t)
	rec := &models.AssessmentRecord{Name: "SQL Server", URL: "https://example.com/sql/", TestType: "K"}
	if err := idx.Index(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if results, _ := idx.Search(ctx, "sql", 5, nil); len(results) != 1 {
		t.Fatalf("expected one hit, got %+v", results)
	}
	if err := idx.Delete(ctx, rec.URL); err != nil {
		t.Fatal(err)
	}
	if results, _ := idx.Search(ctx, "sql", 5, nil); len(results) != 0 {
		t.Errorf("expected no hits after delete, got %+v", results)
	}
}

func TestBleveIndex_ZeroLimit(t *testing.T) {
	idx := newMemIndex(t)
	results, err := idx.Search(context.Background(), "java", 0, nil)
	if err != nil || len(results) != 0 {
		t.Errorf("results=%v err=%v", results, err)
	}
}

func TestBleveIndex_OnDiskReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bleve")
	idx, err := NewBleveIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Sync(ctx, testCatalog()); err != nil {
		t.Fatal(err)
	}
	_ = idx.Close()

	reopened, err := NewBleveIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if n, _ := reopened.DocCount(); n != 3 {
		t.Errorf("DocCount after reopen = %d", n)
	}
}
