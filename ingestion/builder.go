package ingestion

import (
	"context"
	"errors"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/describe"
)

// Builder turns typed rows into embedded chunk records.
type Builder struct {
	embedder   ai.Embedder
	dimensions int
}

// NewBuilder creates a builder. A positive dimensions enforces the width of
// every vector the embedder returns.
func NewBuilder(embedder ai.Embedder, dimensions int) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Builder{embedder: embedder, dimensions: dimensions}, nil
}

// Build embeds the canonical form of fields and wraps the result in a new
// ChunkRecord. Embedding failures, including a vector of the wrong width, are
// returned as *ai.EmbeddingError.
func (b *Builder) Build(ctx context.Context, fields core.FieldMap, kind core.Kind) (*core.ChunkRecord, error) {
	if err := core.ValidateKind(kind); err != nil {
		return nil, err
	}
	content, err := fields.Canonical()
	if err != nil {
		return nil, err
	}
	return b.build(ctx, fields, kind, content)
}

func (b *Builder) build(ctx context.Context, fields core.FieldMap, kind core.Kind, content string) (*core.ChunkRecord, error) {
	vector, err := b.embedder.EmbedText(ctx, content)
	if err != nil {
		var embErr *ai.EmbeddingError
		if errors.As(err, &embErr) {
			return nil, err
		}
		return nil, &ai.EmbeddingError{Err: err}
	}
	if len(vector) == 0 {
		return nil, &ai.EmbeddingError{Err: ai.ErrEmptyEmbedding}
	}
	if err := core.ValidateDimensions(vector, b.dimensions); err != nil {
		return nil, &ai.EmbeddingError{Err: err}
	}

	return &core.ChunkRecord{
		ID:          core.NewChunkID(),
		Kind:        kind,
		Fields:      fields,
		Description: describe.Describe(fields, kind),
		Vector:      vector,
		Checksum:    core.Fingerprint(content),
	}, nil
}
