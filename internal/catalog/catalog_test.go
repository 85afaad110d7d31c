package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/sentaku/internal/models"
)

const sampleCatalog = `[
  {"assessment_name": "Java 8 (New)", "assessment_url": "https://example.com/view/java-8-new/", "description": "Multi-choice test of Java", "test_type": "K", "duration": "18 minutes", "remote_testing": "Yes", "adaptive_irt": "No"},
  {"assessment_name": "OPQ32r", "assessment_url": "https://example.com/view/opq32r/", "test_type": "P"},
  {"assessment_name": "", "assessment_url": "https://example.com/view/nameless/"},
  {"assessment_name": "No URL"},
  {"assessment_name": "Java 8 again", "assessment_url": "https://example.com/view/java-8-new/", "test_type": "P"}
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assessments.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCatalog), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	first, _ := c.At(0)
	if first.Name != "Java 8 (New)" || first.Category != models.CategoryHard {
		t.Errorf("unexpected first record %+v", first)
	}
	second, _ := c.At(1)
	if second.Category != models.CategorySoft {
		t.Errorf("second category = %s, want Soft", second.Category)
	}
	if second.Description != "" || second.Duration != "" {
		t.Errorf("missing optional fields should default to empty, got %+v", second)
	}
	rec, ord, ok := c.Lookup("https://example.com/view/opq32r/")
	if !ok || ord != 1 || rec.Name != "OPQ32r" {
		t.Errorf("Lookup = %v %d %v", rec, ord, ok)
	}
	if _, _, ok := c.Lookup("https://example.com/view/missing/"); ok {
		t.Error("Lookup of unknown url should fail")
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("expected ErrCatalogNotFound, got %v", err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load(writeCatalog(t, "{not json"), nil)
	if err == nil || errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoad_WrongTypedOptionalFields(t *testing.T) {
	content := `[
  {"assessment_name": "Java 8 (New)", "assessment_url": "https://example.com/view/java-8-new/", "test_type": "K", "duration": "30"},
  {"assessment_name": "OPQ32r", "assessment_url": "https://example.com/view/opq32r/", "duration": 25, "description": ["a"], "test_type": null, "remote_testing": true, "adaptive_irt": {"x": 1}},
  {"assessment_name": "Verify G+", "assessment_url": "https://example.com/view/verify-g/", "test_type": 7},
  {"assessment_name": 12, "assessment_url": "https://example.com/view/numeric-name/"},
  42,
  null
]`
	c, err := LoadOrEmpty(writeCatalog(t, content), nil)
	if err != nil {
		t.Fatalf("LoadOrEmpty: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	first, _ := c.At(0)
	if first.Duration != "30" || first.Category != models.CategoryHard {
		t.Errorf("well-formed record changed: %+v", first)
	}

	rec, ord, ok := c.Lookup("https://example.com/view/opq32r/")
	if !ok || ord != 1 {
		t.Fatalf("record with malformed optional fields was dropped")
	}
	if rec.Duration != "" || rec.Description != "" || rec.TestType != "" || rec.RemoteTesting != "" || rec.AdaptiveIRT != "" {
		t.Errorf("malformed optional fields should read as empty, got %+v", rec)
	}
	if rec.Category != Classify("") || rec.Category != models.CategoryHard {
		t.Errorf("null test_type category = %s, want Hard", rec.Category)
	}

	third, _ := c.At(2)
	if third.TestType != "" || third.Category != models.CategoryHard {
		t.Errorf("numeric test_type should read as empty and classify Hard, got %+v", third)
	}
	if _, _, ok := c.Lookup("https://example.com/view/numeric-name/"); ok {
		t.Error("record with a non-string name should be skipped")
	}
}

func TestLoad_NotAnArray(t *testing.T) {
	if _, err := Load(writeCatalog(t, `{"assessment_name": "x"}`), nil); err == nil {
		t.Fatal("expected error for a catalog that is not an array")
	}
}

func TestLoadOrEmpty(t *testing.T) {
	c, err := LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err != nil {
		t.Fatalf("LoadOrEmpty: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestNew_NormalizesText(t *testing.T) {
	c := New([]models.AssessmentRecord{
		{Name: "  Ｊａｖａ   Script ", URL: " https://x/js/ ", Description: "line one\n\tline two"},
	}, nil)
	rec, _ := c.At(0)
	if rec.Name != "Java Script" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.URL != "https://x/js/" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.Description != "line one line two" {
		t.Errorf("Description = %q", rec.Description)
	}
}

func TestCorpusText(t *testing.T) {
	if got := CorpusText(&models.AssessmentRecord{Name: "Java", Description: "core language"}); got != "Java core language" {
		t.Errorf("got %q", got)
	}
	if got := CorpusText(&models.AssessmentRecord{Name: "Java"}); got != "Java" {
		t.Errorf("got %q", got)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if c.Len() != 0 || c.Records() != nil {
		t.Error("nil catalog should be empty")
	}
	if _, ok := c.At(0); ok {
		t.Error("At on nil catalog should fail")
	}
}

func TestPointID(t *testing.T) {
	a := PointID("https://example.com/view/java-8-new/")
	if a != PointID("https://example.com/view/java-8-new/") {
		t.Error("PointID should be deterministic")
	}
	if a == PointID("https://example.com/view/opq32r/") {
		t.Error("different urls should give different ids")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string, got %q", a)
	}
}

func TestTextHash(t *testing.T) {
	if TextHash("a") == TextHash("b") {
		t.Error("different text should hash differently")
	}
	if len(TextHash("")) != 64 {
		t.Error("expected hex sha256")
	}
}
