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


// Package storage provides the storage abstraction layer for mithril.
//
// This package defines the index interfaces that decouple the vector store
// from ingestion, publishing and retrieval. Two backends implement them:
//
//   - storage/badger: an embedded store on BadgerDB with brute-force
//     cosine k-NN, suitable for local runs and tests
//   - storage/qdrant: a remote Qdrant collection per index
//
// # Architecture
//
//   - IndexAdmin: creates and opens indexes
//   - IndexRepository: schema lookup, document upsert and k-NN search on
//     one index
//
// Documents are flat attribute maps (core.Document) keyed by their "id"
// attribute. A search takes a query vector, a neighbor count, an optional
// equality filter and a projection list.
//
// # Usage
//
//	store, err := badger.Open("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.EnsureIndex(ctx, core.CustomerIndex("customers")); err != nil {
//	    log.Fatal(err)
//	}
//	index, err := store.Index(ctx, "customers")
//	hits, err := index.Search(ctx, storage.SearchRequest{
//	    Vector: vector,
//	    K:      100,
//	    Filter: &storage.Equality{Field: "CSU", Value: "East"},
//	})
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
