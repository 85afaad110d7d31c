package models

// ResultItem is one recommendation returned to callers.
type ResultItem struct {
	Name  string  `json:"assessment_name"`
	URL   string  `json:"assessment_url"`
	Score float64 `json:"score"`
	// Category is informational only.
	Category Category `json:"category,omitempty"`
}

// NewResultItem projects a scored candidate onto the public result shape.
func NewResultItem(c ScoredCandidate) ResultItem {
	item := ResultItem{Score: c.Score, Category: c.Category}
	if c.Record != nil {
		item.Name = c.Record.Name
		item.URL = c.Record.URL
	}
	return item
}

// RecommendResponse is a query with its results and timing, as printed by `sentaku recommend -o json`.
type RecommendResponse struct {
	Query       string       `json:"query"`
	Results     []ResultItem `json:"results"`
	QueryTimeMs int64        `json:"query_time_ms"`
}

// CatalogHit is one keyword lookup result over the catalog.
type CatalogHit struct {
	Record *AssessmentRecord `json:"assessment"`
	Score  float64           `json:"score"`
}
