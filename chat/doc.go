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


// Package chat implements the conversational answer loop.
//
// Each turn retrieves context for the query, and only when something was
// found asks the chat model with the context and the session history.
// Transient chat failures are retried under a bounded retry.Policy. A turn
// that fails for any reason leaves the history untouched. Inline [docN]
// citation markers are removed from answers before they are shown or
// remembered.
//
// A Session drives the loop over an input and output stream and tells the
// user apart three failure outcomes: no documents found, an upstream
// service error, and retries exhausted.
package chat
