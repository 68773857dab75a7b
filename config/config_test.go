package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mithril.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, BackendBadger, cfg.Store.Backend)
	assert.Equal(t, 8191, cfg.Ingest.MaxTokens)
	assert.Equal(t, ".md", cfg.Ingest.Extension)
	assert.Equal(t, 100, cfg.Chat.K)
	assert.Equal(t, "East", cfg.Chat.Scope)
	assert.Equal(t, 3, cfg.Chat.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Chat.RetryDelay.Duration)
	assert.Equal(t, 60*time.Second, cfg.Chat.Timeout.Duration)
	assert.Equal(t, "exit", cfg.Chat.ExitSentinel)
	assert.Equal(t, core.DefaultScopeField, cfg.Indexes.ScopeField)
	assert.Equal(t, 1536, cfg.AI.Dimensions)
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
[ai]
api_type = "azure"
api_key = "secret"
embedding_host = "https://res.openai.azure.com"

[store]
backend = "qdrant"

[store.qdrant]
host = "qdrant.internal"
use_tls = true

[indexes]
customer = "cust-v2"

[chat]
scope = "West"
retry_delay = "250ms"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ai.APITypeAzure, cfg.AI.APIType)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, "https://res.openai.azure.com", cfg.AI.EmbeddingHost)
	assert.Equal(t, "gpt-4o", cfg.AI.ChatModel, "unset keys keep defaults")

	assert.Equal(t, BackendQdrant, cfg.Store.Backend)
	assert.Equal(t, "qdrant.internal", cfg.Store.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Store.Qdrant.Port)
	assert.True(t, cfg.Store.Qdrant.UseTLS)

	assert.Equal(t, "cust-v2", cfg.Indexes.Name(core.KindCustomer))
	assert.Equal(t, "crm", cfg.Indexes.Name(core.KindCRM))

	assert.Equal(t, "West", cfg.Chat.Scope)
	assert.Equal(t, 250*time.Millisecond, cfg.Chat.RetryDelay.Duration)
	assert.Equal(t, 100, cfg.Chat.K)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[chat]\ntemperature = 0.2\n"},
		{"bad duration", "[chat]\ntimeout = \"soon\"\n"},
		{"malformed", "[chat\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }, "store.backend"},
		{"badger without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"qdrant without host", func(c *Config) {
			c.Store.Backend = BackendQdrant
			c.Store.Qdrant.Host = ""
		}, "store.qdrant.host"},
		{"same index names", func(c *Config) { c.Indexes.CRM = c.Indexes.Customer }, "must differ"},
		{"zero max tokens", func(c *Config) { c.Ingest.MaxTokens = 0 }, "ingest.max_tokens"},
		{"negative workers", func(c *Config) { c.Ingest.Workers = -1 }, "ingest.workers"},
		{"zero k", func(c *Config) { c.Chat.K = 0 }, "chat.k"},
		{"zero attempts", func(c *Config) { c.Chat.MaxAttempts = 0 }, "chat.max_attempts"},
		{"negative delay", func(c *Config) { c.Chat.RetryDelay.Duration = -time.Second }, "chat.retry_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Chat.RetryDelay = Duration{3 * time.Second}
	cfg.Store.Backend = BackendQdrant

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Regexp(t, `retry_delay = ['"]3s['"]`, buf.String())

	decoded := Default()
	require.NoError(t, decoded.Decode(&buf))
	assert.Equal(t, cfg, decoded)
}
