package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.ExtractorHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.NotEmpty(t, cfg.ExtractorModel)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.Equal(t, 4096, cfg.MaxTokens)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("applies options over defaults", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://example.com:9100"),
			WithExtractorModel("gpt-4o-mini"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithAPIKey("secret"),
			WithMaxTokens(2048),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://example.com:9100/v1", cfg.ExtractorHost)
		assert.Equal(t, "http://example.com:9100/v1", cfg.EmbeddingHost)
		assert.Equal(t, "gpt-4o-mini", cfg.ExtractorModel)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, 2048, cfg.MaxTokens)
	})

	t.Run("separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithExtractorHost("http://a:1"),
			WithEmbeddingHost("http://b:2"),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://a:1/v1", cfg.ExtractorHost)
		assert.Equal(t, "http://b:2/v1", cfg.EmbeddingHost)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.ExtractorHost)
	})

	t.Run("strips trailing slash before adding v1", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.ExtractorHost)
	})

	t.Run("leaves existing v1 alone", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.ExtractorHost)
	})

	t.Run("leaves empty embedding host alone", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""), WithEmbeddingModel(""))
		cfg.Normalize()
		assert.Empty(t, cfg.EmbeddingHost)
	})
}

func TestValidate(t *testing.T) {
	t.Run("missing extractor host", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ExtractorHost = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing extractor model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ExtractorModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("embedding fully disabled is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingHost = ""
		cfg.EmbeddingModel = ""
		require.NoError(t, cfg.Validate())
		assert.False(t, cfg.EmbeddingEnabled())
	})

	t.Run("half-configured embedding is invalid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive max tokens", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxTokens = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestEmbeddingEnabled(t *testing.T) {
	assert.True(t, DefaultConfig().EmbeddingEnabled())

	cfg := DefaultConfig()
	cfg.EmbeddingHost = ""
	cfg.EmbeddingModel = ""
	assert.False(t, cfg.EmbeddingEnabled())
}
