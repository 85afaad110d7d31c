package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hyperjump/sentaku/internal/observability"
	"github.com/hyperjump/sentaku/internal/retry"
	"github.com/hyperjump/sentaku/pkg/utils"
)

const (
	defaultGeminiModel      = "gemini-embedding-001"
	defaultGeminiDimensions = 768
	geminiMaxBatch          = 100
)

// contentEmbedder is the part of genai.Models used here.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiEmbedder uses the Gemini embedding API with a fixed output dimensionality.
type GeminiEmbedder struct {
	models     contentEmbedder
	model      string
	dimensions int
	taskType   string
}

// NewGeminiEmbedder creates a client for the Gemini API backend.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimensions int) (*GeminiEmbedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiEmbedder(client.Models, model, dimensions), nil
}

func newGeminiEmbedder(models contentEmbedder, model string, dimensions int) *GeminiEmbedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	if dimensions <= 0 {
		dimensions = defaultGeminiDimensions
	}
	return &GeminiEmbedder{
		models:     models,
		model:      model,
		dimensions: dimensions,
		taskType:   "SEMANTIC_SIMILARITY",
	}
}

// Embed embeds a single text.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts, at most 100 per request.
func (g *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += geminiMaxBatch {
		end := i + geminiMaxBatch
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := g.embedBatch(ctx, texts[i:end])
		observability.RecordEmbedding("gemini", err)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (g *GeminiEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.Text(t)...)
	}
	dims := int32(g.dimensions)
	resp, err := g.models.EmbedContent(ctx, g.model, contents, &genai.EmbedContentConfig{
		TaskType:             g.taskType,
		OutputDimensionality: &dims,
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, retry.Classify(&retry.StatusError{Provider: "gemini", StatusCode: apiErr.Code, Body: apiErr.Message})
		}
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini embed: expected %d embeddings, got %d", len(texts), got)
	}
	vecs := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini embed: empty embedding at %d", i)
		}
		v := make([]float32, len(e.Values))
		copy(v, e.Values)
		// truncated gemini-embedding-001 outputs are not unit length
		utils.NormalizeL2(v)
		vecs[i] = v
	}
	return vecs, nil
}

// Dimensions returns the requested output dimensionality.
func (g *GeminiEmbedder) Dimensions() int {
	return g.dimensions
}

// ModelID returns "gemini:<model>:<dimensions>".
func (g *GeminiEmbedder) ModelID() string {
	return fmt.Sprintf("gemini:%s:%d", g.model, g.dimensions)
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (g *GeminiEmbedder) Close() error {
	return nil
}
