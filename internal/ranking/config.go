package ranking

// BalanceConfig holds the category-balancing policy.
type BalanceConfig struct {
	// Interleave when the best hard and best soft scores differ by less than this.
	ScoreGapThreshold float64 `yaml:"score_gap_threshold"` // default: 0.15
	// Lower-case substrings that mark a query as asking for soft skills.
	SoftKeywords []string `yaml:"soft_keywords"`
}

// DefaultSoftKeywords are the stems that make a query need soft-skill assessments.
var DefaultSoftKeywords = []string{
	"team",
	"collaborat",
	"communicat",
	"lead",
	"manag",
	"person",
	"behav",
	"soft",
	"interpersonal",
	"cultur",
}

// DefaultBalanceConfig returns the default balancing policy.
func DefaultBalanceConfig() *BalanceConfig {
	kw := make([]string, len(DefaultSoftKeywords))
	copy(kw, DefaultSoftKeywords)
	return &BalanceConfig{
		ScoreGapThreshold: 0.15,
		SoftKeywords:      kw,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *BalanceConfig) ApplyDefaults() {
	defaults := DefaultBalanceConfig()
	if c.ScoreGapThreshold <= 0 {
		c.ScoreGapThreshold = defaults.ScoreGapThreshold
	}
	if len(c.SoftKeywords) == 0 {
		c.SoftKeywords = defaults.SoftKeywords
	}
}
