package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/sentaku/internal/catalog"
	"github.com/hyperjump/sentaku/internal/retry"
)

// PayloadIDKey is the payload field holding the caller's item ID.
const PayloadIDKey = "item_id"

// QdrantIndex is a minimal Qdrant HTTP client used as a VectorIndex over one collection.
// Point ids are derived from item ids with catalog.PointID; distance is cosine.
type QdrantIndex struct {
	baseURL    string
	apiKey     string
	collection string
	dimensions int
	httpClient *http.Client
}

// QdrantConfig configures a QdrantIndex.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Dimensions int
	Timeout    time.Duration
}

// NewQdrantIndex constructs a client. It performs no network calls.
func NewQdrantIndex(cfg QdrantConfig) (*QdrantIndex, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &QdrantIndex{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Type returns the index type identifier.
func (q *QdrantIndex) Type() string {
	return string(IndexTypeQdrant)
}

// EnsureCollection creates the collection with cosine distance if it does not exist.
func (q *QdrantIndex) EnsureCollection(ctx context.Context) error {
	resp, err := q.do(ctx, http.MethodGet, q.collectionURL(), nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	payload := map[string]any{
		"vectors": map[string]any{"size": q.dimensions, "distance": "Cosine"},
	}
	resp, err = q.do(ctx, http.MethodPut, q.collectionURL(), payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return checkStatus(resp, "create collection")
}

// Add upserts items as points; the item id is kept in the payload under PayloadIDKey.
func (q *QdrantIndex) Add(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	points := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if len(it.Vector) != q.dimensions {
			return fmt.Errorf("vector dimension mismatch for %s: got %d, expected %d", it.ID, len(it.Vector), q.dimensions)
		}
		payload := make(map[string]any, len(it.Metadata)+1)
		for k, v := range it.Metadata {
			payload[k] = v
		}
		payload[PayloadIDKey] = it.ID
		points = append(points, map[string]any{
			"id":      catalog.PointID(it.ID),
			"vector":  it.Vector,
			"payload": payload,
		})
	}
	resp, err := q.do(ctx, http.MethodPut, q.collectionURL()+"/points?wait=true", map[string]any{"points": points})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return checkStatus(resp, "upsert")
}

type qdrantSearchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the top-k nearest points with payloads.
// Qdrant orders by score; ties keep the server's order.
func (q *QdrantIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	if len(query) != q.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), q.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	body := map[string]any{"vector": query, "limit": k, "with_payload": true}
	resp, err := q.do(ctx, http.MethodPost, q.collectionURL()+"/points/search", body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp, "search"); err != nil {
		return nil, err
	}
	var out qdrantSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("qdrant search decode: %w", err)
	}
	results := make([]*VectorResult, 0, len(out.Result))
	for _, r := range out.Result {
		id, _ := r.Payload[PayloadIDKey].(string)
		if id == "" {
			id = fmt.Sprint(r.ID)
		}
		results = append(results, &VectorResult{ID: id, Score: r.Score, Metadata: r.Payload})
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (q *QdrantIndex) Count(ctx context.Context) (int, error) {
	resp, err := q.do(ctx, http.MethodGet, q.collectionURL(), nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp, "collection info"); err != nil {
		return 0, err
	}
	var out struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("qdrant collection decode: %w", err)
	}
	return out.Result.PointsCount, nil
}

// Size returns the point count, or 0 when the collection cannot be reached.
func (q *QdrantIndex) Size() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := q.Count(ctx)
	if err != nil {
		return 0
	}
	return n
}

// Close releases idle connections.
func (q *QdrantIndex) Close() error {
	q.httpClient.CloseIdleConnections()
	return nil
}

func (q *QdrantIndex) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", q.baseURL, q.collection)
}

func (q *QdrantIndex) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("qdrant marshal: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant %s: %w", method, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return retry.Classify(&retry.StatusError{
		Provider:   "qdrant " + op,
		StatusCode: resp.StatusCode,
		Body:       string(snippet),
	})
}
