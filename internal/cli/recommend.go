package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/extract"
	"github.com/hyperjump/sentaku/internal/search"
)

var (
	recommendLimit  int
	recommendFile   string
	recommendOutput string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [flags] <query>",
	Short: "Recommend assessments for a hiring query or job description",
	Long: `Recommend assessments for a hiring query. The query is all remaining arguments
joined by spaces. --file reads a job description from a PDF, DOCX or text file; when
both are given the file text follows the query.

Examples:
  sentaku recommend Java developer who collaborates with business teams
  sentaku recommend --limit 5 --output compact "analyst with SQL and Excel"
  sentaku recommend --file jd.pdf --output json`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "maximum number of results (default from config)")
	recommendCmd.Flags().StringVarP(&recommendFile, "file", "f", "", "job description file (pdf, docx, txt)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "output", "o", string(OutputText), "output format: text, compact, json")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(recommendOutput)
	if err != nil {
		return err
	}
	query, err := buildQuery(args, recommendFile, extract.NewExtractor(extract.DefaultMaxBytes))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := NewApp(ctx, cfg, rootLogger)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	limit := recommendLimit
	if limit <= 0 {
		limit = cfg.Search.DefaultLimit
	}
	return recommend(ctx, app.Engine, app.Logger, query, limit, format, cmd.OutOrStdout())
}

func recommend(ctx context.Context, engine *search.Engine, logger *zap.Logger, query string, limit int, format OutputFormat, w io.Writer) error {
	start := time.Now()
	res := engine.SearchDetailed(ctx, query, limit)
	if res.Err != nil {
		logger.Warn("retrieval unavailable", zap.Error(res.Err))
	}
	return WriteResults(w, query, res.Items, time.Since(start), format)
}

// buildQuery joins the positional arguments and appends the text of file, if given.
func buildQuery(args []string, file string, ex *extract.Extractor) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if file != "" {
		text, err := ex.Extract(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		query = strings.TrimSpace(query + "\n" + text)
	}
	if query == "" {
		return "", errors.New("query is required (pass it as arguments or with --file)")
	}
	return query, nil
}
