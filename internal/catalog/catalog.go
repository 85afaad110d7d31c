// Package catalog loads assessment records and derives their categories.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// ErrCatalogNotFound is returned by Load when the catalog file does not exist.
var ErrCatalogNotFound = errors.New("catalog not found")

// Catalog is an ordered, read-only set of assessment records.
// A record's position in Records is its corpus ordinal.
type Catalog struct {
	records []*models.AssessmentRecord
	byURL   map[string]int
	source  string
}

// New builds a catalog from raw records. Records without a name or url are skipped,
// as are later duplicates of an already seen url. Every kept record gets its category.
func New(raw []models.AssessmentRecord, logger *zap.Logger) *Catalog {
	logger = utils.OrNop(logger)
	c := &Catalog{
		records: make([]*models.AssessmentRecord, 0, len(raw)),
		byURL:   make(map[string]int, len(raw)),
	}
	for i := range raw {
		rec := normalizeRecord(raw[i])
		if rec.Name == "" || rec.URL == "" {
			logger.Warn("skipping catalog record without name or url",
				zap.Int("position", i), zap.String("name", rec.Name), zap.String("url", rec.URL))
			continue
		}
		if _, dup := c.byURL[rec.URL]; dup {
			logger.Warn("skipping duplicate catalog record", zap.String("url", rec.URL))
			continue
		}
		rec.Category = Classify(rec.TestType)
		c.byURL[rec.URL] = len(c.records)
		c.records = append(c.records, &rec)
	}
	return c
}

// Empty returns a catalog with no records.
func Empty() *Catalog {
	return New(nil, nil)
}

// Load reads a JSON array of assessment records from path.
// A missing file returns an error wrapping ErrCatalogNotFound.
func Load(path string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	logger = utils.OrNop(logger)
	raw, entries, err := decodeRecords(data, logger)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c := New(raw, logger)
	c.source = path
	logger.Info("catalog loaded",
		zap.String("path", path), zap.Int("records", c.Len()), zap.Int("skipped", entries-c.Len()))
	return c, nil
}

// decodeRecords parses a JSON array of records field by field. A field holding anything
// but a string reads as "", so one malformed field never rejects its record or the file.
// Entries that are not objects are skipped. It also returns the number of array entries.
func decodeRecords(data []byte, logger *zap.Logger) ([]models.AssessmentRecord, int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, 0, err
	}
	out := make([]models.AssessmentRecord, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			logger.Warn("skipping catalog entry that is not an object", zap.Int("position", i))
			continue
		}
		out = append(out, models.AssessmentRecord{
			Name:          stringField(fields, "assessment_name"),
			URL:           stringField(fields, "assessment_url"),
			Description:   stringField(fields, "description"),
			TestType:      stringField(fields, "test_type"),
			Duration:      stringField(fields, "duration"),
			RemoteTesting: stringField(fields, "remote_testing"),
			AdaptiveIRT:   stringField(fields, "adaptive_irt"),
		})
	}
	return out, len(entries), nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(fields[key], &s); err != nil {
		return ""
	}
	return s
}

// LoadOrEmpty is Load, except that a missing file yields an empty catalog and a warning.
func LoadOrEmpty(path string, logger *zap.Logger) (*Catalog, error) {
	c, err := Load(path, logger)
	if errors.Is(err, ErrCatalogNotFound) {
		utils.OrNop(logger).Warn("catalog file not found, starting with an empty corpus", zap.String("path", path))
		c = Empty()
		c.source = path
		return c, nil
	}
	return c, err
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns the records in corpus order. Callers must not modify them.
func (c *Catalog) Records() []*models.AssessmentRecord {
	if c == nil {
		return nil
	}
	return c.records
}

// At returns the record at ordinal i.
func (c *Catalog) At(i int) (*models.AssessmentRecord, bool) {
	if c == nil || i < 0 || i >= len(c.records) {
		return nil, false
	}
	return c.records[i], true
}

// Lookup returns the record with the given url and its ordinal.
func (c *Catalog) Lookup(url string) (*models.AssessmentRecord, int, bool) {
	if c == nil {
		return nil, -1, false
	}
	i, ok := c.byURL[url]
	if !ok {
		return nil, -1, false
	}
	return c.records[i], i, true
}

// Source returns the file the catalog was loaded from, if any.
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}
