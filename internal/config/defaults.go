package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.RateLimitPerMinute == 0 {
		cfg.Server.RateLimitPerMinute = 120
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "/usr/local/var/sentaku/data/shl_catalog.json"
	}
	if cfg.Catalog.Debounce == 0 {
		cfg.Catalog.Debounce = 500 * time.Millisecond
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/sentaku/data/db/embeddings.db"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/sentaku/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.TokenizerPath == "" {
		cfg.Embedding.TokenizerPath = "/usr/local/var/sentaku/data/models/tokenizer.json"
	}
	if cfg.Embedding.Dimensions == 0 && cfg.Embedding.Provider == "onnx" {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 30 * time.Second
	}
	if cfg.Vector.Type == "" {
		cfg.Vector.Type = "memory"
	}
	if cfg.Vector.QdrantURL == "" {
		cfg.Vector.QdrantURL = "http://localhost:6333"
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "shl_assessments"
	}
	if cfg.Vector.Timeout == 0 {
		cfg.Vector.Timeout = 10 * time.Second
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 10000
	}
	if cfg.Cache.RedisTTL == 0 {
		cfg.Cache.RedisTTL = 24 * time.Hour
	}
	if cfg.Search.PoolSize == 0 {
		cfg.Search.PoolSize = 30
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 50
	}
	if cfg.Search.MaxQueryChars == 0 {
		cfg.Search.MaxQueryChars = 4000
	}
	if cfg.Search.RetrievalTimeout == 0 {
		cfg.Search.RetrievalTimeout = 10 * time.Second
	}
	if cfg.Search.RetryMaxAttempts == 0 {
		cfg.Search.RetryMaxAttempts = 3
	}
	if cfg.Search.RetryInitialInterval == 0 {
		cfg.Search.RetryInitialInterval = 200 * time.Millisecond
	}
	cfg.Search.Balance.ApplyDefaults()
}
