// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StorageConfig locates the proposal data and the two index stores.
type StorageConfig struct {
	// DataDir holds one subdirectory per past proposal.
	DataDir string `yaml:"data_dir"`
	// IndexPath is the SQLite database file for the lexical index.
	IndexPath string `yaml:"index_path"`
	// VectorDir is the BadgerDB directory for the vector index.
	// Empty disables vector indexing regardless of AI settings.
	VectorDir string `yaml:"vector_dir"`
}

// AIConfig configures the OpenAI-compatible collaborators.
type AIConfig struct {
	ExtractorHost  string `yaml:"extractor_host"`
	ExtractorModel string `yaml:"extractor_model"`
	// EmbeddingHost and EmbeddingModel enable semantic indexing when
	// both are set.
	EmbeddingHost  string `yaml:"embedding_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxTokens      int    `yaml:"max_tokens"`
}

// SearchConfig tunes the retrieval engine.
type SearchConfig struct {
	LexicalWeight float64 `yaml:"lexical_weight"`
	VectorWeight  float64 `yaml:"vector_weight"`
	DefaultLimit  int     `yaml:"default_limit"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage  StorageConfig `yaml:"storage"`
	AI       AIConfig      `yaml:"ai"`
	Search   SearchConfig  `yaml:"search"`
	LogLevel string        `yaml:"log_level"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// APIKey resolves the collaborator API key from the configured
// environment variable, empty when unset.
func (c *AIConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// EmbeddingEnabled reports whether semantic indexing is configured.
func (c *AppConfig) EmbeddingEnabled() bool {
	return c.Storage.VectorDir != "" && c.AI.EmbeddingHost != "" && c.AI.EmbeddingModel != ""
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = filepath.Join("data", "past_proposals")
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = filepath.Join("data", "tenderidx.db")
	}
	if cfg.Storage.VectorDir == "" {
		cfg.Storage.VectorDir = filepath.Join("data", "vectors")
	}
	if cfg.AI.ExtractorHost == "" {
		cfg.AI.ExtractorHost = "http://localhost:11434/v1"
	}
	if cfg.AI.ExtractorModel == "" {
		cfg.AI.ExtractorModel = "qwen2.5:3b"
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 4096
	}
	if cfg.Search.LexicalWeight == 0 {
		cfg.Search.LexicalWeight = 1.0
	}
	if cfg.Search.VectorWeight == 0 {
		cfg.Search.VectorWeight = 1.0
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 5
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
