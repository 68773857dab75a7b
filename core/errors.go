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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunkRecord indicates a ChunkRecord failed validation.
	ErrInvalidChunkRecord = errors.New("invalid chunk record")

	// ErrInvalidKind indicates an unknown record kind.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidFieldType indicates an unknown schema field type.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrEmptyID indicates a chunk without an identifier.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyDescription indicates a chunk without a description.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// expected embedding width.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidIndexDefinition indicates an index definition failed validation.
	ErrInvalidIndexDefinition = errors.New("invalid index definition")
)
