package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
)

// SchemaSource supplies the declared field types for a kind of table.
type SchemaSource interface {
	SchemaFor(ctx context.Context, kind core.Kind) (core.Schema, error)
}

// SchemaSourceFunc adapts a function to SchemaSource.
type SchemaSourceFunc func(ctx context.Context, kind core.Kind) (core.Schema, error)

func (f SchemaSourceFunc) SchemaFor(ctx context.Context, kind core.Kind) (core.Schema, error) {
	return f(ctx, kind)
}

// IndexSchemas reads each kind's schema from the index its chunks go to.
type IndexSchemas map[core.Kind]storage.IndexRepository

func (s IndexSchemas) SchemaFor(ctx context.Context, kind core.Kind) (core.Schema, error) {
	index, ok := s[kind]
	if !ok || index == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoIndexForKind, kind)
	}
	schema, err := index.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching schema of %s: %w", index.Name(), err)
	}
	return schema, nil
}
