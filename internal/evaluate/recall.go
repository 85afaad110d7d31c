// Package evaluate measures recommendation quality against labelled queries and exports predictions.
package evaluate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/internal/models"
	"github.com/hyperjump/sentaku/pkg/utils"
)

// Searcher is the recommendation entry point being evaluated.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []models.ResultItem
}

// QueryRecall is the recall of one labelled query.
type QueryRecall struct {
	Query  string
	Recall float64
	Found  int
	Truth  int
}

// Report is the result of one evaluation run.
type Report struct {
	RunID      string
	K          int
	Queries    []QueryRecall
	MeanRecall float64
	Duration   time.Duration
}

// NormalizeURL reduces a url to its last path segment, ignoring a trailing slash.
func NormalizeURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

// RecallAtK is the share of truth urls found among the first k predictions, compared by slug.
// Empty truth yields 0.
func RecallAtK(truth, predicted []string, k int) (float64, int) {
	if len(truth) == 0 {
		return 0, 0
	}
	if k >= 0 && len(predicted) > k {
		predicted = predicted[:k]
	}
	want := make(map[string]struct{}, len(truth))
	for _, u := range truth {
		want[NormalizeURL(u)] = struct{}{}
	}
	found := 0
	for _, u := range predicted {
		if _, ok := want[NormalizeURL(u)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(truth)), found
}

// MeanRecall averages per-query recall; no queries yields 0.
func MeanRecall(rs []QueryRecall) float64 {
	if len(rs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rs {
		sum += r.Recall
	}
	return sum / float64(len(rs))
}

// Evaluate runs every labelled query through s and computes mean Recall@k.
func Evaluate(ctx context.Context, s Searcher, labeled []LabeledQuery, k int, logger *zap.Logger) (*Report, error) {
	logger = utils.OrNop(logger)
	start := time.Now()
	report := &Report{RunID: uuid.NewString(), K: k, Queries: make([]QueryRecall, 0, len(labeled))}
	for _, lq := range labeled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results := s.Search(ctx, lq.Query, k)
		predicted := make([]string, len(results))
		for i, r := range results {
			predicted[i] = r.URL
		}
		recall, found := RecallAtK(lq.URLs, predicted, k)
		report.Queries = append(report.Queries, QueryRecall{
			Query:  lq.Query,
			Recall: recall,
			Found:  found,
			Truth:  len(lq.URLs),
		})
		logger.Debug("query evaluated",
			zap.String("run_id", report.RunID),
			zap.Int("query_len", len(lq.Query)),
			zap.Float64("recall", recall),
		)
	}
	report.MeanRecall = MeanRecall(report.Queries)
	report.Duration = time.Since(start)
	logger.Info("evaluation finished",
		zap.String("run_id", report.RunID),
		zap.Int("queries", len(report.Queries)),
		zap.Int("k", k),
		zap.Float64("mean_recall", report.MeanRecall),
	)
	return report, nil
}
