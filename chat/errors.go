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
	"errors"
	"fmt"
)

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrChatCompleterRequired is returned when a chat completer is not provided.
	ErrChatCompleterRequired = errors.New("chat completer required")

	// ErrAnswererRequired is returned when a session has no answerer.
	ErrAnswererRequired = errors.New("answerer required")

	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("empty query")

	// ErrNoContext is returned when retrieval found no documents. The chat
	// model is not consulted.
	ErrNoContext = errors.New("no relevant documents found")

	// ErrInvalidK is returned when fewer than one neighbor is requested.
	ErrInvalidK = errors.New("k must be at least 1")
)

// UpstreamError reports a failed call to the retriever or the chat model
// that was not retried to exhaustion.
type UpstreamError struct {
	// Stage is "retrieval" or "completion".
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
