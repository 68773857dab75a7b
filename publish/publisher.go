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


package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/retry"
	"github.com/poiesic/mithril/storage"
)

// Result is the outcome of one Publish call.
type Result struct {
	Succeeded int
	Failures  []Failure
}

// Publisher uploads chunk records to one index as flat documents.
// Documents are never deduplicated; publishing the same rows twice creates
// duplicates with different ids.
type Publisher struct {
	index  storage.IndexRepository
	retry  *retry.Policy
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher) error

// WithRetry retries failed uploads under policy.
// Default is a single attempt.
func WithRetry(policy retry.Policy) Option {
	return func(p *Publisher) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		p.retry = &policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPublisher creates a publisher for index.
func NewPublisher(index storage.IndexRepository, opts ...Option) (*Publisher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	p := &Publisher{
		index:  index,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "publisher", "index", index.Name())

	return p, nil
}

// Index returns the name of the target index.
func (p *Publisher) Index() string {
	return p.index.Name()
}

// PublishOne validates chunk and uploads it as one document.
func (p *Publisher) PublishOne(ctx context.Context, chunk *core.ChunkRecord) error {
	if err := core.ValidateChunkRecord(chunk, 0); err != nil {
		return err
	}

	doc := chunk.Document()
	upload := func(ctx context.Context) error {
		return p.index.Upsert(ctx, doc)
	}

	var err error
	if p.retry != nil {
		err = p.retry.Do(ctx, upload)
	} else {
		err = upload(ctx)
	}
	if err != nil {
		return fmt.Errorf("upserting %s into %s: %w", chunk.ID, p.index.Name(), err)
	}

	p.logger.Debug("published chunk", "id", chunk.ID, "source", chunk.Source)
	return nil
}

// Publish uploads every chunk independently. A failed upload is recorded and
// the remaining chunks are still published.
func (p *Publisher) Publish(ctx context.Context, chunks []*core.ChunkRecord) *Result {
	result := &Result{}
	seen := make(map[string]string, len(chunks))

	for _, chunk := range chunks {
		if chunk != nil && chunk.Checksum != "" {
			if first, dup := seen[chunk.Checksum]; dup {
				p.logger.Warn("duplicate chunk content in batch", "id", chunk.ID, "first", first, "source", chunk.Source)
			} else {
				seen[chunk.Checksum] = chunk.ID
			}
		}

		if err := p.PublishOne(ctx, chunk); err != nil {
			failure := Failure{Err: err}
			if chunk != nil {
				failure.Source = chunk.Source
				failure.ID = chunk.ID
			}
			p.logger.Error("failed to publish chunk", "id", failure.ID, "source", failure.Source, "err", err)
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Succeeded++
	}

	p.logger.Info("publish finished", "succeeded", result.Succeeded, "failed", len(result.Failures))
	return result
}
