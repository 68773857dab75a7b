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
	"errors"
	"fmt"

	"github.com/poiesic/mithril/core"
)

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrTargetsRequired is returned when a retriever has no index to search.
	ErrTargetsRequired = errors.New("at least one search target required")

	// ErrIndexRequired is returned when a target has no index repository.
	ErrIndexRequired = errors.New("target index required")

	// ErrInvalidK is returned when fewer than one neighbor is requested.
	ErrInvalidK = errors.New("k must be at least 1")
)

// SearchError reports a failed search against one index. A single failing
// index fails the whole retrieval.
type SearchError struct {
	Kind  core.Kind
	Index string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("searching %s index %q: %v", e.Kind, e.Index, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
