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


// Package ingestion turns directories of pipe-delimited tables into embedded
// chunk records.
//
// The Pipeline type manages the ingestion workflow:
//   - Listing table files and routing each to a kind by file name
//   - Fetching each kind's schema once per run and parsing rows through it
//   - Dropping rows whose canonical form exceeds the token budget
//   - Embedding and describing each row with a Builder
//   - Handing every chunk to a Sink (artifact files, index publishers, or both)
//
// Rows are processed concurrently on a worker pool. A row that fails never
// fails the run; every outcome is counted in the returned Report.
//
// Chunk artifacts are JSON files named chunk_<row>_<table>.json under a
// per-kind directory. ReadArtifacts loads them back for a separate publish
// step.
package ingestion
