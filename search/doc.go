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


// Package search provides retrieval across the customer and CRM indexes.
//
// The Retriever embeds a query once and runs a k-nearest-neighbor search
// against every configured index concurrently, with an optional equality
// filter on a scope attribute. Results are concatenated in index order:
//   - No re-ranking across indexes
//   - No deduplication
//   - A failure in any index fails the query
//
// A SearchMonitor can observe each stage of a retrieval.
package search
