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


// Package table parses pipe-delimited table exports into typed rows.
//
// The first non-blank line is the header. A markdown separator rule directly
// below it is skipped. Every other non-blank line is split on "|", trimmed,
// and stripped of empty tokens; rows whose cell count differs from the header
// are counted in Result.Skipped and dropped. Cells are cast through a
// core.Schema, and fields the schema does not declare are kept as strings.
package table
