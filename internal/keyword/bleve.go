package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	keywordanalyzer "github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/models"
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

type bleveDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TestType    string `json:"test_type"`
	Category    string `json:"category"`
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer: lowercase and tokenize, no stemming, so "java" matches "Java 8" exactly.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	docMapping.AddFieldMappingsAt("test_type", textFieldMapping)
	categoryMapping := bleve.NewTextFieldMapping()
	categoryMapping.Analyzer = keywordanalyzer.Name
	docMapping.AddFieldMappingsAt("category", categoryMapping)
	im.AddDocumentMapping("assessment", docMapping)
	im.DefaultType = "assessment"
	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path.
// An empty path keeps the index in memory.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := newMapping()
	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
		}
		return &BleveIndex{index: index}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func toDoc(rec *models.AssessmentRecord) bleveDoc {
	return bleveDoc{
		Name:        rec.Name,
		Description: rec.Description,
		TestType:    rec.TestType,
		Category:    string(rec.Category),
	}
}

// Index indexes a record by url.
func (b *BleveIndex) Index(ctx context.Context, rec *models.AssessmentRecord) error {
	return b.index.Index(rec.URL, toDoc(rec))
}

// Sync makes the index hold exactly the records of cat.
func (b *BleveIndex) Sync(ctx context.Context, cat *catalog.Catalog) error {
	existing, err := b.allIDs()
	if err != nil {
		return err
	}
	batch := b.index.NewBatch()
	for _, rec := range cat.Records() {
		if err := batch.Index(rec.URL, toDoc(rec)); err != nil {
			return fmt.Errorf("failed to batch %s: %w", rec.URL, err)
		}
		delete(existing, rec.URL)
	}
	for id := range existing {
		batch.Delete(id)
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("Bleve batch failed: %w", err)
	}
	return nil
}

func (b *BleveIndex) allIDs() (map[string]struct{}, error) {
	n, err := b.index.DocCount()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, n)
	if n == 0 {
		return ids, nil
	}
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(n)
	res, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	for _, hit := range res.Hits {
		ids[hit.ID] = struct{}{}
	}
	return ids, nil
}

// Search runs a match query over name, description and test type and returns up to limit results.
// Name matches are boosted by opts.NameBoost.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	if limit <= 0 {
		return []*KeywordResult{}, nil
	}
	nameBoost := 1.0
	fuzziness := 0
	if opts != nil {
		if opts.NameBoost > 0 {
			nameBoost = opts.NameBoost
		}
		if opts.FuzzyEnabled {
			fuzziness = 1
			if opts.Fuzziness > 0 {
				fuzziness = opts.Fuzziness
			}
		}
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"name", nameBoost},
		{"description", 1.0},
		{"test_type", 1.0},
	}
	queries := make([]blevequery.Query, 0, len(fields))
	for _, f := range fields {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		if fuzziness > 0 {
			mq.SetFuzziness(fuzziness)
		}
		queries = append(queries, mq)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = limit
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes a record by url.
func (b *BleveIndex) Delete(ctx context.Context, url string) error {
	return b.index.Delete(url)
}

// Close closes the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the number of indexed records.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
