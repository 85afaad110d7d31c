// Package ranking turns a scored candidate pool into the final, category-balanced result list.
package ranking

import (
	"math"

	"github.com/hyperjump/sentaku/internal/models"
)

// Decision describes how a pool was balanced.
type Decision struct {
	NeedsSoft   bool
	BothPresent bool
	ScoreGap    float64
	Interleaved bool
}

// Balancer applies the interleaving policy.
type Balancer struct {
	config *BalanceConfig
}

// NewBalancer creates a Balancer. A nil config uses the defaults.
func NewBalancer(config *BalanceConfig) *Balancer {
	if config == nil {
		config = DefaultBalanceConfig()
	}
	config.ApplyDefaults()
	return &Balancer{config: config}
}

var defaultBalancer = NewBalancer(nil)

// Balance runs the default policy.
func Balance(candidates []models.ScoredCandidate, query string, limit int) []models.ResultItem {
	items, _ := defaultBalancer.Balance(candidates, query, limit)
	return items
}

// Balance returns at most limit items. candidates must already be ordered by score descending.
//
// When both categories are present and either their best scores are close or the query asks
// for soft skills, hard and soft candidates alternate starting with hard, each side keeping its
// own order; once a side runs out the other is drained. Otherwise the first limit candidates are
// returned unchanged.
func (b *Balancer) Balance(candidates []models.ScoredCandidate, query string, limit int) ([]models.ResultItem, Decision) {
	var d Decision
	if limit <= 0 || len(candidates) == 0 {
		return []models.ResultItem{}, d
	}

	var hard, soft []models.ScoredCandidate
	for _, c := range candidates {
		if c.IsHard() {
			hard = append(hard, c)
		} else {
			soft = append(soft, c)
		}
	}

	d.NeedsSoft = NeedsSoft(query, b.config.SoftKeywords)
	d.BothPresent = len(hard) > 0 && len(soft) > 0
	if d.BothPresent {
		d.ScoreGap = math.Abs(hard[0].Score - soft[0].Score)
		d.Interleaved = d.ScoreGap < b.config.ScoreGapThreshold || d.NeedsSoft
	}

	n := min(limit, len(candidates))
	out := make([]models.ResultItem, 0, n)
	if !d.Interleaved {
		for _, c := range candidates[:n] {
			out = append(out, models.NewResultItem(c))
		}
		return out, d
	}

	h, s := 0, 0
	for len(out) < n {
		if h < len(hard) {
			out = append(out, models.NewResultItem(hard[h]))
			h++
			if len(out) == n {
				break
			}
		}
		if s < len(soft) {
			out = append(out, models.NewResultItem(soft[s]))
			s++
		}
	}
	return out, d
}
