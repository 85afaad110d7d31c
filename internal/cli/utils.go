// Package cli implements the sentaku command line.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/sentaku/internal/config"
	"github.com/hyperjump/sentaku/internal/evaluate"
	"github.com/hyperjump/sentaku/internal/models"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "/usr/local/etc/sentaku/config.yaml"

// OutputFormat is the format for recommendation output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one "name<TAB>url" line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: text, compact, json)", s)
	}
}

// WriteResults writes recommendations to w in the given format.
func WriteResults(w io.Writer, query string, items []models.ResultItem, elapsed time.Duration, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(models.RecommendResponse{
			Query:       query,
			Results:     items,
			QueryTimeMs: elapsed.Milliseconds(),
		})
	case OutputCompact:
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\n", it.Name, it.URL)
		}
		return nil
	default:
		writeResultsText(w, query, items, elapsed)
		return nil
	}
}

func writeResultsText(w io.Writer, query string, items []models.ResultItem, elapsed time.Duration) {
	fmt.Fprintf(w, "\n%d recommendations for %q in %dms\n\n", len(items), TruncateWords(query, 12), elapsed.Milliseconds())
	for i, it := range items {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%2d. %s  [%s] score %.4f\n", i+1, it.Name, it.Category, it.Score)
		fmt.Fprintf(w, "    %s\n", it.URL)
	}
	if len(items) > 0 {
		fmt.Fprintln(w)
	}
}

// WriteReport prints an evaluation report, one line per query then the mean.
func WriteReport(w io.Writer, r *evaluate.Report) {
	for _, q := range r.Queries {
		fmt.Fprintf(w, "%.4f  %d/%d  %s\n", q.Recall, q.Found, q.Truth, Truncate(q.Query, 80))
	}
	fmt.Fprintf(w, "\nMean Recall@%d: %.4f over %d queries (run %s, %s)\n",
		r.K, r.MeanRecall, len(r.Queries), r.RunID, r.Duration.Round(time.Millisecond))
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// loadConfig loads config from path. When path is the default, ./config.yaml is preferred
// if it exists; when neither exists, defaults plus environment overrides are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == DefaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			if err := config.ApplyEnv(cfg); err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
