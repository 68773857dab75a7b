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


package mithril

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/ai/openai"
	"github.com/poiesic/mithril/ai/tiktoken"
	"github.com/poiesic/mithril/chat"
	"github.com/poiesic/mithril/config"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/ingestion"
	"github.com/poiesic/mithril/publish"
	"github.com/poiesic/mithril/retry"
	"github.com/poiesic/mithril/search"
	"github.com/poiesic/mithril/storage"
	"github.com/poiesic/mithril/storage/badger"
	"github.com/poiesic/mithril/storage/qdrant"
)

// System wires a configured index store and AI provider into the
// ingestion, publish and chat components.
type System struct {
	cfg       *config.Config
	store     storage.IndexAdmin
	provider  ai.AIProvider
	tokenizer ai.Tokenizer
	logger    *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	store     storage.IndexAdmin
	provider  ai.AIProvider
	tokenizer ai.Tokenizer
	logger    *slog.Logger
}

// WithStore uses store instead of opening the configured backend.
// The System takes ownership and closes it.
func WithStore(store storage.IndexAdmin) SystemOption {
	return func(o *systemOptions) {
		o.store = store
	}
}

// WithProvider uses provider instead of creating one from the [ai] section.
// The System takes ownership and closes it.
func WithProvider(provider ai.AIProvider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithTokenizer uses tokenizer instead of the configured tiktoken encoding.
func WithTokenizer(tokenizer ai.Tokenizer) SystemOption {
	return func(o *systemOptions) {
		o.tokenizer = tokenizer
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SystemOption {
	return func(o *systemOptions) {
		o.logger = logger
	}
}

// Open validates cfg and connects to everything it names.
func Open(cfg *config.Config, opts ...SystemOption) (*System, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &systemOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	store := options.store
	if store == nil {
		var err error
		store, err = openStore(cfg.Store)
		if err != nil {
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		aiConfig := cfg.AI
		var err error
		provider, err = openai.NewProvider(&aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	tokenizer := options.tokenizer
	if tokenizer == nil {
		tok, err := tiktoken.New(cfg.AI.Encoding)
		if err != nil {
			provider.Close()
			store.Close()
			return nil, err
		}
		tokenizer = tok
	}

	return &System{
		cfg:       cfg,
		store:     store,
		provider:  provider,
		tokenizer: tokenizer,
		logger:    options.logger,
	}, nil
}

func openStore(cfg config.StoreConfig) (storage.IndexAdmin, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return badger.Open(cfg.Path)
	case config.BackendQdrant:
		return qdrant.Open(cfg.Qdrant)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// Close releases the AI provider and the store.
func (s *System) Close() error {
	var errs []error
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing index store", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *System) Config() *config.Config {
	return s.cfg
}

func (s *System) Provider() ai.AIProvider {
	return s.provider
}

func (s *System) Tokenizer() ai.Tokenizer {
	return s.tokenizer
}

// Definition returns the index layout used for kind.
func (s *System) Definition(kind core.Kind) *core.IndexDefinition {
	def := core.IndexFor(kind, s.cfg.Indexes.Name(kind))
	if s.cfg.AI.Dimensions > 0 {
		def.Dimensions = s.cfg.AI.Dimensions
	}
	return def
}

// EnsureIndexes creates the customer and CRM indexes if they are missing.
func (s *System) EnsureIndexes(ctx context.Context) error {
	for _, kind := range core.Kinds {
		def := s.Definition(kind)
		if err := s.store.EnsureIndex(ctx, def); err != nil {
			return fmt.Errorf("ensuring %s index %q: %w", kind, def.Name, err)
		}
		s.logger.Info("index ready", "kind", kind, "index", def.Name)
	}
	return nil
}

// Index opens the configured index for kind.
func (s *System) Index(ctx context.Context, kind core.Kind) (storage.IndexRepository, error) {
	return s.store.Index(ctx, s.cfg.Indexes.Name(kind))
}

// Indexes opens the indexes of every kind.
func (s *System) Indexes(ctx context.Context) (ingestion.IndexSchemas, error) {
	out := make(ingestion.IndexSchemas, len(core.Kinds))
	for _, kind := range core.Kinds {
		index, err := s.Index(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("opening %s index: %w", kind, err)
		}
		out[kind] = index
	}
	return out, nil
}

// NewPublishers returns a sink publishing each chunk to its kind's index.
func (s *System) NewPublishers(ctx context.Context, opts ...publish.Option) (ingestion.PublishSink, error) {
	indexes, err := s.Indexes(ctx)
	if err != nil {
		return nil, err
	}
	sink := make(ingestion.PublishSink, len(indexes))
	for kind, index := range indexes {
		p, err := publish.NewPublisher(index, opts...)
		if err != nil {
			return nil, err
		}
		sink[kind] = p
	}
	return sink, nil
}

// NewIngestionPipeline creates a pipeline reading schemas from the
// configured indexes and delivering chunks to sink. opts are applied after
// the configured defaults.
func (s *System) NewIngestionPipeline(ctx context.Context, sink ingestion.Sink, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	indexes, err := s.Indexes(ctx)
	if err != nil {
		return nil, err
	}

	defaults := []ingestion.Option{
		ingestion.WithMaxTokens(s.cfg.Ingest.MaxTokens),
		ingestion.WithExtension(s.cfg.Ingest.Extension),
		ingestion.WithDimensions(s.cfg.AI.Dimensions),
		ingestion.WithLogger(s.logger),
	}
	if s.cfg.Ingest.Workers > 0 {
		defaults = append(defaults, ingestion.WithPoolSize(s.cfg.Ingest.Workers))
	}

	return ingestion.NewPipeline(indexes, s.provider.Embedder(), s.tokenizer, sink, append(defaults, opts...)...)
}

// NewRetriever creates a retriever over the customer index then the CRM index.
func (s *System) NewRetriever(ctx context.Context, opts ...search.Option) (*search.Retriever, error) {
	indexes, err := s.Indexes(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]search.Target, 0, len(core.Kinds))
	for _, kind := range core.Kinds {
		targets = append(targets, search.Target{
			Kind:   kind,
			Index:  indexes[kind],
			Select: core.DefaultSelect(kind),
		})
	}

	defaults := []search.Option{
		search.WithScopeField(s.cfg.Indexes.ScopeField),
		search.WithLogger(s.logger),
	}
	return search.NewRetriever(s.provider.Embedder(), targets, append(defaults, opts...)...)
}

// NewAnswerer creates an answerer configured from the [chat] section.
func (s *System) NewAnswerer(ctx context.Context, opts ...chat.Option) (*chat.Answerer, error) {
	retriever, err := s.NewRetriever(ctx)
	if err != nil {
		return nil, err
	}

	c := s.cfg.Chat
	defaults := []chat.Option{
		chat.WithK(c.K),
		chat.WithScope(c.Scope),
		chat.WithTimeout(c.Timeout.Duration),
		chat.WithInstructions(c.Instructions),
		chat.WithRetry(retry.Policy{
			MaxAttempts: c.MaxAttempts,
			Backoff:     retry.Constant(c.RetryDelay.Duration),
			Retryable:   ai.IsRetryable,
		}),
		chat.WithLogger(s.logger),
	}
	return chat.NewAnswerer(retriever, s.provider.ChatCompleter(), append(defaults, opts...)...)
}
