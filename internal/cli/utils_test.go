package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/sentaku/internal/evaluate"
	"github.com/hyperjump/sentaku/internal/models"
)

var sampleItems = []models.ResultItem{
	{Name: "Java 8 (New)", URL: "https://example.com/java-8-new/", Score: 0.91, Category: models.CategoryHard},
	{Name: "OPQ32r", URL: "https://example.com/opq32r/", Score: 0.74, Category: models.CategorySoft},
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, "java dev", sampleItems, 42*time.Millisecond, OutputJSON); err != nil {
		t.Fatalf("WriteResults(json): %v", err)
	}
	var decoded models.RecommendResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != "java dev" || decoded.QueryTimeMs != 42 {
		t.Errorf("decoded query=%q query_time_ms=%d", decoded.Query, decoded.QueryTimeMs)
	}
	if len(decoded.Results) != 2 || decoded.Results[0].URL != sampleItems[0].URL {
		t.Errorf("decoded results = %+v", decoded.Results)
	}
}

func TestWriteResults_JSON_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, "q", []models.ResultItem{}, 0, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"results": []`) {
		t.Errorf("empty results should encode as []; got %s", buf.String())
	}
}

func TestWriteResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, "java dev", sampleItems, 10*time.Millisecond, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{"2 recommendations", "10ms", " 1. Java 8 (New)", "[Soft]", "https://example.com/opq32r/"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, "q", sampleItems, 0, OutputCompact); err != nil {
		t.Fatal(err)
	}
	want := "Java 8 (New)\thttps://example.com/java-8-new/\nOPQ32r\thttps://example.com/opq32r/\n"
	if buf.String() != want {
		t.Errorf("compact output = %q, want %q", buf.String(), want)
	}
}

func TestWriteResults_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, "x", nil, 0, OutputFormat("unknown")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "0 recommendations") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func TestWriteReport(t *testing.T) {
	r := &evaluate.Report{
		RunID: "run-1",
		K:     10,
		Queries: []evaluate.QueryRecall{
			{Query: "java developer", Recall: 0.5, Found: 1, Truth: 2},
			{Query: "sales manager", Recall: 1, Found: 3, Truth: 3},
		},
		MeanRecall: 0.75,
	}
	var buf bytes.Buffer
	WriteReport(&buf, r)
	out := buf.String()
	for _, sub := range []string{"0.5000  1/2  java developer", "Mean Recall@10: 0.7500 over 2 queries", "run-1"} {
		if !strings.Contains(out, sub) {
			t.Errorf("report missing %q:\n%s", sub, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty", "", 5, ""},
		{"short", "hi", 5, "hi"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"multibyte", "日本語のテキスト", 3, "日本語..."},
		{"maxLen zero", "ab", 0, "ab"},
		{"maxLen negative", "ab", -1, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9191\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, used, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if used != path || cfg.Server.Port != 9191 {
		t.Errorf("used=%q port=%d", used, cfg.Server.Port)
	}
}

func TestLoadConfig_PrefersWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 7070\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, used, err := loadConfig(DefaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(used) != "config.yaml" || cfg.Server.Port != 7070 {
		t.Errorf("used=%q port=%d", used, cfg.Server.Port)
	}
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		t.Skip("a system config exists")
	}
	t.Chdir(t.TempDir())
	t.Setenv("SENTAKU_PORT", "6060")

	cfg, used, err := loadConfig(DefaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if used != "" {
		t.Errorf("used = %q, want empty", used)
	}
	if cfg.Server.Port != 6060 || cfg.Search.DefaultLimit != 10 {
		t.Errorf("port=%d default_limit=%d", cfg.Server.Port, cfg.Search.DefaultLimit)
	}
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
