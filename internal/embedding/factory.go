package embedding

import (
	"context"
	"fmt"
	"time"
)

// Provider names accepted by New.
const (
	ProviderONNX   = "onnx"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Options selects and configures an embedding provider.
type Options struct {
	Provider   string
	Model      string
	Dimensions int
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	ONNX       ONNXConfig
}

// New builds the embedder named by opts.Provider. An empty provider means onnx.
func New(ctx context.Context, opts Options) (Embedder, error) {
	switch opts.Provider {
	case ProviderONNX, "":
		cfg := opts.ONNX
		if cfg.Dimensions == 0 {
			cfg.Dimensions = opts.Dimensions
		}
		if cfg.ModelID == "" {
			cfg.ModelID = opts.Model
		}
		e, err := NewONNXEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	case ProviderGemini:
		return NewGeminiEmbedder(ctx, opts.APIKey, opts.Model, opts.Dimensions)
	case ProviderOpenAI:
		return NewOpenAIEmbedder(opts.APIKey, opts.Model, opts.BaseURL, opts.Dimensions, opts.Timeout)
	case ProviderMock:
		return NewMockEmbedder(opts.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, gemini, openai, mock)", opts.Provider)
	}
}
