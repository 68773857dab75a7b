package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/mithril/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newLLM(config, config.EmbeddingHost,
		openai.WithEmbeddingModel(config.EmbeddingModel),
		openai.WithModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	return newEmbedderWithClient(client)
}

// newEmbedderWithClient wraps any langchaingo embedder client.
func newEmbedderWithClient(client embeddings.EmbedderClient) (*Embedder, error) {
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, &ai.EmbeddingError{Err: err}
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, &ai.EmbeddingError{Err: ai.ErrEmptyEmbedding}
	}

	return vectors[0], nil
}
