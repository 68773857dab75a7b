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


package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/retry"
	"github.com/poiesic/mithril/search"
)

// Defaults of an Answerer.
const (
	DefaultK           = 100
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 10 * time.Second
	DefaultTimeout     = 60 * time.Second
)

// Retriever finds the documents a query is answered from.
type Retriever interface {
	Retrieve(ctx context.Context, query, scope string, k int) ([]search.Document, error)
}

var _ Retriever = (*search.Retriever)(nil)

// Answer is the outcome of one answered turn.
type Answer struct {
	Query     string
	Text      string
	Raw       string
	Model     string
	Usage     ai.Usage
	Documents int
	Attempts  int
}

// Answerer answers one query at a time from retrieved context.
type Answerer struct {
	retriever    Retriever
	chat         ai.ChatCompleter
	policy       retry.Policy
	scope        string
	k            int
	timeout      time.Duration
	instructions string
	logger       *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithRetry sets the retry policy for chat completion. A policy without a
// classifier retries only errors ai.IsRetryable accepts.
// Default is three attempts ten seconds apart.
func WithRetry(policy retry.Policy) Option {
	return func(a *Answerer) error {
		if policy.MaxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		if policy.Retryable == nil {
			policy.Retryable = ai.IsRetryable
		}
		a.policy = policy
		return nil
	}
}

// WithScope restricts retrieval to documents whose scope field equals scope.
// Default is no restriction.
func WithScope(scope string) Option {
	return func(a *Answerer) error {
		a.scope = scope
		return nil
	}
}

// WithK sets the number of neighbors requested from each index.
// Default is DefaultK.
func WithK(k int) Option {
	return func(a *Answerer) error {
		if k < 1 {
			return ErrInvalidK
		}
		a.k = k
		return nil
	}
}

// WithTimeout bounds every retrieval and every completion attempt.
// Zero disables the bound. Default is DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Answerer) error {
		a.timeout = d
		return nil
	}
}

// WithInstructions replaces the system instructions sent with every query.
// Default is DefaultInstructions.
func WithInstructions(instructions string) Option {
	return func(a *Answerer) error {
		if instructions == "" {
			instructions = DefaultInstructions
		}
		a.instructions = instructions
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates an answerer.
func NewAnswerer(retriever Retriever, chat ai.ChatCompleter, opts ...Option) (*Answerer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if chat == nil {
		return nil, ErrChatCompleterRequired
	}

	a := &Answerer{
		retriever: retriever,
		chat:      chat,
		policy: retry.Policy{
			MaxAttempts: DefaultMaxAttempts,
			Backoff:     retry.Constant(DefaultRetryDelay),
			Retryable:   ai.IsRetryable,
		},
		k:            DefaultK,
		timeout:      DefaultTimeout,
		instructions: DefaultInstructions,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "answerer")
	if a.policy.Logger == nil {
		a.policy.Logger = a.logger
	}

	return a, nil
}

// Scope returns the configured scope filter.
func (a *Answerer) Scope() string {
	return a.scope
}

// Answer retrieves context for query, asks the chat model and appends the
// cleaned answer to history.
//
// Returns ErrNoContext without calling the chat model when retrieval finds
// nothing, *UpstreamError when retrieval or a non-retryable completion
// fails, and *retry.ExhaustedError when every attempt failed. History is
// only changed on success.
func (a *Answerer) Answer(ctx context.Context, history *History, query string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	rctx, cancel := a.bound(ctx)
	docs, err := a.retriever.Retrieve(rctx, query, a.scope, a.k)
	cancel()
	if err != nil {
		a.logger.Error("retrieval failed", "err", err)
		return nil, &UpstreamError{Stage: "retrieval", Err: err}
	}
	if len(docs) == 0 {
		a.logger.Info("no context for query", "scope", a.scope)
		return nil, ErrNoContext
	}

	messages := BuildMessages(a.instructions, query, docs, history)

	var (
		completion *ai.Completion
		attempts   int
	)
	err = a.policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		cctx, cancel := a.bound(ctx)
		defer cancel()

		c, err := a.chat.Complete(cctx, messages)
		if err != nil {
			return err
		}
		completion = c
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			a.logger.Error("chat completion retries exhausted", "attempts", exhausted.Attempts, "err", exhausted.Err)
			return nil, err
		}
		a.logger.Error("chat completion failed", "attempts", attempts, "err", err)
		return nil, &UpstreamError{Stage: "completion", Err: err}
	}

	answer := &Answer{
		Query:     query,
		Text:      StripCitations(completion.Text),
		Raw:       completion.Text,
		Model:     completion.Model,
		Usage:     completion.Usage,
		Documents: len(docs),
		Attempts:  attempts,
	}
	if history != nil {
		history.Append(query, answer.Text)
	}

	a.logger.Debug("answered query", "documents", len(docs), "attempts", attempts, "tokens", completion.Usage.TotalTokens)
	return answer, nil
}

func (a *Answerer) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
