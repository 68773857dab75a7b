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


package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
	"golang.org/x/sync/errgroup"
)

// Target is one index searched for every query.
type Target struct {
	Kind  core.Kind
	Index storage.IndexRepository

	// Select is the projection requested from the index. Empty selects
	// every attribute except the vector.
	Select []string
}

// Document is one retrieved document.
type Document struct {
	Kind   core.Kind
	Index  string
	Score  float32
	Fields core.Document
}

// Description returns the document's description attribute.
func (d Document) Description() string {
	return d.Fields.Description()
}

// Retriever searches several indexes with a single query embedding.
type Retriever struct {
	embedder   ai.Embedder
	targets    []Target
	scopeField string
	logger     *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithScopeField sets the attribute a scope filter is matched against.
// Default is core.DefaultScopeField.
func WithScopeField(field string) Option {
	return func(r *Retriever) error {
		if field == "" {
			field = core.DefaultScopeField
		}
		r.scopeField = field
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over targets. Results are always
// returned in target order.
func NewRetriever(embedder ai.Embedder, targets []Target, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if len(targets) == 0 {
		return nil, ErrTargetsRequired
	}
	for _, t := range targets {
		if t.Index == nil {
			return nil, fmt.Errorf("%w: %s", ErrIndexRequired, t.Kind)
		}
	}

	r := &Retriever{
		embedder:   embedder,
		targets:    targets,
		scopeField: core.DefaultScopeField,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever")

	return r, nil
}

// Retrieve returns up to k documents from each target for query.
func (r *Retriever) Retrieve(ctx context.Context, query, scope string, k int) ([]Document, error) {
	return r.RetrieveWithMonitor(ctx, query, scope, k, nil)
}

// RetrieveWithMonitor embeds query once and searches every target
// concurrently, filtering on the scope field when scope is not empty.
// Results are concatenated in target order without re-ranking or
// deduplication. Any failing search fails the whole call with a
// *SearchError.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query, scope string, k int, monitor SearchMonitor) ([]Document, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k < 1 {
		return nil, ErrInvalidK
	}

	monitor.Start(query, scope)

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	monitor.AfterQueryEmbedding(vector)

	var filter *storage.Equality
	if scope != "" {
		filter = &storage.Equality{Field: r.scopeField, Value: scope}
	}

	results := make([][]Document, len(r.targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range r.targets {
		g.Go(func() error {
			hits, err := target.Index.Search(gctx, storage.SearchRequest{
				Vector: vector,
				K:      k,
				Filter: filter,
				Select: target.Select,
			})
			if err != nil {
				return &SearchError{Kind: target.Kind, Index: target.Index.Name(), Err: err}
			}

			docs := make([]Document, 0, len(hits))
			for _, hit := range hits {
				docs = append(docs, Document{
					Kind:   target.Kind,
					Index:  target.Index.Name(),
					Score:  hit.Score,
					Fields: hit.Document,
				})
			}
			results[i] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Error("index search failed", "err", err)
		return nil, err
	}

	var docs []Document
	for i, target := range r.targets {
		monitor.AfterIndexSearch(target.Kind, target.Index.Name(), len(results[i]))
		docs = append(docs, results[i]...)
	}
	monitor.Finish(docs)

	r.logger.Debug("retrieved documents", "count", len(docs), "scope", scope)
	return docs, nil
}
