// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// APIType selects the wire dialect of the model endpoints.
type APIType string

const (
	// APITypeOpenAI targets OpenAI or any OpenAI-compatible server.
	APITypeOpenAI APIType = "openai"
	// APITypeAzure targets an Azure OpenAI resource; models are deployment names.
	APITypeAzure APIType = "azure"
)

// DefaultAzureAPIVersion is used when an Azure endpoint is configured without
// an explicit API version.
const DefaultAzureAPIVersion = "2024-02-01"

// Config holds configuration for AI service providers.
type Config struct {
	// APIType is either "openai" or "azure".
	APIType APIType `toml:"api_type"`

	// APIKey authenticates against the endpoints. Local OpenAI-compatible
	// servers accept any value.
	APIKey string `toml:"api_key"`

	// APIVersion is the Azure OpenAI API version. Ignored for openai.
	APIVersion string `toml:"api_version"`

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" or "https://myres.openai.azure.com"
	EmbeddingHost string `toml:"embedding_host"`

	// ChatHost is the base URL for the chat-completion service API.
	ChatHost string `toml:"chat_host"`

	// EmbeddingModel is the embedding model (or Azure deployment) name.
	// Example: "text-embedding-ada-002"
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel is the chat model (or Azure deployment) name.
	// Example: "gpt-4o"
	ChatModel string `toml:"chat_model"`

	// Dimensions is the expected embedding width. Vectors of any other length
	// are rejected. Zero disables the check.
	Dimensions int `toml:"dimensions"`

	// Encoding is the tokenizer encoding used for token budgets.
	Encoding string `toml:"encoding"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIType sets the endpoint dialect.
func WithAPIType(apiType APIType) ConfigOption {
	return func(c *Config) {
		c.APIType = apiType
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithAPIVersion sets the Azure API version.
func WithAPIVersion(version string) ConfigOption {
	return func(c *Config) {
		c.APIVersion = version
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithChatHost sets the chat service host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithHost sets both embedding and chat hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ChatHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithDimensions sets the expected embedding width.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// WithEncoding sets the tokenizer encoding.
func WithEncoding(encoding string) ConfigOption {
	return func(c *Config) {
		c.Encoding = encoding
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible server.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		APIType:        APITypeOpenAI,
		EmbeddingHost:  defaultHost,
		ChatHost:       defaultHost,
		EmbeddingModel: "text-embedding-ada-002",
		ChatModel:      "gpt-4o",
		Dimensions:     1536,
		Encoding:       "cl100k_base",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIType(APITypeAzure),
//	    WithHost("https://myres.openai.azure.com"),
//	    WithAPIKey(key),
//	    WithChatModel("gpt-4o"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get the /v1 suffix most servers (Ollama, LocalAI,
// vLLM) require; Azure endpoints are left alone apart from trailing slashes.
func (c *Config) Normalize() {
	c.APIType = APIType(strings.ToLower(string(c.APIType)))
	if c.APIType == "" {
		c.APIType = APITypeOpenAI
	}
	if c.APIType == APITypeAzure && c.APIVersion == "" {
		c.APIVersion = DefaultAzureAPIVersion
	}
	c.EmbeddingHost = c.normalizeHost(c.EmbeddingHost)
	c.ChatHost = c.normalizeHost(c.ChatHost)
	if c.Encoding == "" {
		c.Encoding = "cl100k_base"
	}
}

func (c *Config) normalizeHost(host string) string {
	if host == "" {
		return host
	}
	host = strings.TrimSuffix(host, "/")
	if c.APIType == APITypeOpenAI && !strings.HasSuffix(host, "/v1") {
		host += "/v1"
	}
	return host
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIType != APITypeOpenAI && c.APIType != APITypeAzure {
		return errors.New("ai config: APIType must be openai or azure")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ChatHost == "" {
		return errors.New("ai config: ChatHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.APIType == APITypeAzure && c.APIKey == "" {
		return errors.New("ai config: APIKey is required for azure")
	}
	if c.Dimensions < 0 {
		return errors.New("ai config: Dimensions must not be negative")
	}
	return nil
}
