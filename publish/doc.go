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


// Package publish uploads chunk records to a vector index.
//
// Each chunk becomes one document: its fields flattened to top-level
// attributes plus id, description and vector. Uploads succeed or fail one at
// a time; a batch reports how many documents landed and which did not.
// Nothing is rolled back and nothing is deduplicated.
package publish
