// Package config provides configuration loading and structs for the sentaku service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/sentaku/internal/ranking"
	"github.com/hyperjump/sentaku/internal/retry"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SENTAKU_"

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug" env:"DEBUG"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `yaml:"host" env:"HOST"`
	Port               int           `yaml:"port" env:"PORT"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	CORSOrigins        []string      `yaml:"cors_origins"`
}

// CatalogConfig points at the scraped catalog and controls hot reload.
type CatalogConfig struct {
	Path     string        `yaml:"path" env:"CATALOG_PATH"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// StorageConfig holds paths for the embedding snapshot and the keyword index.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	// Empty keeps the keyword index in memory.
	KeywordIndexPath string `yaml:"keyword_index_path"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider          string        `yaml:"provider" env:"EMBEDDING_PROVIDER"`
	Model             string        `yaml:"model"`
	Dimensions        int           `yaml:"dimensions"`
	MaxTokens         int           `yaml:"max_tokens"`
	BatchSize         int           `yaml:"batch_size"`
	ModelPath         string        `yaml:"model_path"`
	TokenizerPath     string        `yaml:"tokenizer_path"`
	SharedLibraryPath string        `yaml:"shared_library_path" env:"ONNXRUNTIME_LIB"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	GeminiAPIKey      string        `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
}

// APIKey returns the key for the configured hosted provider.
func (e *EmbeddingConfig) APIKey() string {
	switch e.Provider {
	case "gemini":
		return e.GeminiAPIKey
	case "openai":
		return e.OpenAIAPIKey
	}
	return ""
}

// VectorConfig selects the vector index.
type VectorConfig struct {
	Type         string        `yaml:"type" env:"VECTOR_TYPE"`
	QdrantURL    string        `yaml:"qdrant_url" env:"QDRANT_URL"`
	QdrantAPIKey string        `yaml:"qdrant_api_key" env:"QDRANT_API_KEY"`
	Collection   string        `yaml:"collection"`
	Timeout      time.Duration `yaml:"timeout"`
}

// CacheConfig holds the query embedding cache tiers.
type CacheConfig struct {
	Size      int           `yaml:"size"`
	RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisTTL  time.Duration `yaml:"redis_ttl"`
}

// SearchConfig holds retrieval and balancing settings.
type SearchConfig struct {
	PoolSize             int                   `yaml:"pool_size"`
	DefaultLimit         int                   `yaml:"default_limit"`
	MaxLimit             int                   `yaml:"max_limit"`
	MaxQueryChars        int                   `yaml:"max_query_chars"`
	RetrievalTimeout     time.Duration         `yaml:"retrieval_timeout"`
	RetryMaxAttempts     int                   `yaml:"retry_max_attempts"`
	RetryInitialInterval time.Duration         `yaml:"retry_initial_interval"`
	Balance              ranking.BalanceConfig `yaml:"balance"`
}

// Load reads and parses the config file at path, applies defaults, expands paths,
// then applies SENTAKU_* environment overrides.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Storage.KeywordIndexPath != "" {
		cfg.Storage.KeywordIndexPath = expandPath(cfg.Storage.KeywordIndexPath, configDir)
	}
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Embedding.TokenizerPath = expandPath(cfg.Embedding.TokenizerPath, configDir)

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides cfg with SENTAKU_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

// RetryPolicy converts the attempt budget into a backoff policy.
func (s *SearchConfig) RetryPolicy() retry.Policy {
	p := retry.Policy{InitialInterval: s.RetryInitialInterval, MaxInterval: 2 * time.Second}
	if s.RetryMaxAttempts > 1 {
		p.MaxRetries = uint64(s.RetryMaxAttempts - 1)
	}
	return p
}
