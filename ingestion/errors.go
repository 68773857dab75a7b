package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrTokenizerRequired is returned when a tokenizer is not provided.
	ErrTokenizerRequired = errors.New("tokenizer required")

	// ErrSinkRequired is returned when a chunk sink is not provided.
	ErrSinkRequired = errors.New("sink required")

	// ErrSchemaSourceRequired is returned when no schema source is provided.
	ErrSchemaSourceRequired = errors.New("schema source required")

	// ErrInvalidMaxTokens is returned for a non-positive token budget.
	ErrInvalidMaxTokens = errors.New("max tokens must be positive")

	// ErrNoIndexForKind is returned when no index is configured for a kind.
	ErrNoIndexForKind = errors.New("no index configured for kind")

	// ErrNoPublisherForKind is returned when a chunk has no publisher to go to.
	ErrNoPublisherForKind = errors.New("no publisher configured for kind")

	// ErrInvalidArtifact is returned when a chunk file cannot be decoded.
	ErrInvalidArtifact = errors.New("invalid chunk artifact")
)

// ChunkRef locates one row of a source table.
type ChunkRef struct {
	Source string
	Row    int
	Tokens int
}

// ChunkFailure records why one row or file could not be processed.
type ChunkFailure struct {
	Source string
	Row    int
	Err    error
}

func (f *ChunkFailure) Error() string {
	if f.Row > 0 {
		return fmt.Sprintf("%s row %d: %v", f.Source, f.Row, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

func (f *ChunkFailure) Unwrap() error {
	return f.Err
}
