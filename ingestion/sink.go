package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/mithril/core"
)

// Sink receives every chunk the pipeline builds. Implementations must be
// safe for concurrent use.
type Sink interface {
	Deliver(ctx context.Context, chunk *core.ChunkRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, chunk *core.ChunkRecord) error

func (f SinkFunc) Deliver(ctx context.Context, chunk *core.ChunkRecord) error {
	return f(ctx, chunk)
}

// ArtifactWriter writes each chunk to a JSON file under a root directory.
type ArtifactWriter struct {
	dir string
}

// NewArtifactWriter creates a writer rooted at dir.
func NewArtifactWriter(dir string) *ArtifactWriter {
	return &ArtifactWriter{dir: dir}
}

// Dir returns the root directory.
func (w *ArtifactWriter) Dir() string {
	return w.dir
}

func (w *ArtifactWriter) Deliver(_ context.Context, chunk *core.ChunkRecord) error {
	_, err := WriteArtifact(w.dir, chunk)
	return err
}

// ChunkPublisher uploads one chunk to an index.
type ChunkPublisher interface {
	PublishOne(ctx context.Context, chunk *core.ChunkRecord) error
}

// PublishSink routes chunks to the publisher for their kind.
type PublishSink map[core.Kind]ChunkPublisher

func (s PublishSink) Deliver(ctx context.Context, chunk *core.ChunkRecord) error {
	publisher, ok := s[chunk.Kind]
	if !ok || publisher == nil {
		return fmt.Errorf("%w: %s", ErrNoPublisherForKind, chunk.Kind)
	}
	return publisher.PublishOne(ctx, chunk)
}

// MultiSink delivers every chunk to each sink in order. Every sink is tried;
// failures are joined.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, chunk *core.ChunkRecord) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Deliver(ctx, chunk); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
