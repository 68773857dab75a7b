package storage

import (
	"context"

	"github.com/poiesic/mithril/core"
)

// Equality restricts a search to documents whose Field equals Value.
type Equality struct {
	Field string
	Value any
}

// SearchRequest is a k-nearest-neighbor query against one index.
type SearchRequest struct {
	// Vector is the query embedding.
	Vector []float32

	// K is the maximum number of hits.
	K int

	// Filter optionally restricts candidates before ranking.
	Filter *Equality

	// Select lists the attributes to return. Empty returns every attribute
	// except the vector.
	Select []string
}

// Hit is one search result.
type Hit struct {
	Document core.Document
	Score    float32
}

// IndexRepository provides document operations on a single vector index.
// Implementations must be thread-safe.
type IndexRepository interface {
	// Name returns the index name.
	Name() string

	// Schema returns the declared attribute types of the index.
	Schema(ctx context.Context) (core.Schema, error)

	// Upsert inserts or replaces a document keyed by its id attribute.
	Upsert(ctx context.Context, doc core.Document) error

	// Search returns up to req.K hits ordered by similarity, most similar first.
	Search(ctx context.Context, req SearchRequest) ([]Hit, error)

	// Close releases resources held by the repository.
	Close() error
}

// IndexAdmin manages the set of indexes in a store.
type IndexAdmin interface {
	// EnsureIndex creates the index described by def if it does not exist.
	// An existing index is left untouched.
	EnsureIndex(ctx context.Context, def *core.IndexDefinition) error

	// Index opens an existing index. Returns ErrIndexNotFound if it does
	// not exist.
	Index(ctx context.Context, name string) (IndexRepository, error)

	// Close closes the store and releases resources.
	Close() error
}
