package evaluate

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/sentaku/pkg/utils"
)

// Prediction is the output of one prediction run.
type Prediction struct {
	RunID   string
	Pairs   []Pair
	Skipped int
}

// Predict returns the top limit results of every non-blank query as Query,Assessment_url pairs.
func Predict(ctx context.Context, s Searcher, queries []string, limit int, logger *zap.Logger) (*Prediction, error) {
	logger = utils.OrNop(logger)
	p := &Prediction{RunID: uuid.NewString()}
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(q) == "" {
			p.Skipped++
			continue
		}
		for _, r := range s.Search(ctx, q, limit) {
			p.Pairs = append(p.Pairs, Pair{Query: q, URL: r.URL})
		}
		if (i+1)%50 == 0 {
			logger.Info("predictions progress", zap.String("run_id", p.RunID), zap.Int("processed", i+1), zap.Int("total", len(queries)))
		}
	}
	logger.Info("predictions finished",
		zap.String("run_id", p.RunID),
		zap.Int("rows", len(p.Pairs)),
		zap.Int("skipped", p.Skipped),
	)
	return p, nil
}
