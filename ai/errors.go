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


package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyEmbedding is returned when a service answers with no vector.
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrEmptyCompletion is returned when a chat service answers with no choices.
	ErrEmptyCompletion = errors.New("empty completion")
)

// EmbeddingError reports a failed embedding call.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// ChatError reports a failed chat-completion call. Retryable is true for
// transient conditions such as rate limiting, timeouts or an unavailable
// provider.
type ChatError struct {
	Retryable bool
	Err       error
}

func (e *ChatError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("chat completion failed (retryable): %v", e.Err)
	}
	return fmt.Sprintf("chat completion failed: %v", e.Err)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err carries a retryable ChatError.
func IsRetryable(err error) bool {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Retryable
	}
	return false
}
