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

import (
	"fmt"
)

// ValidateChunkRecord validates a ChunkRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Kind must be Customer or CRM
//   - Description must not be empty
//   - Vector length must equal dims when dims > 0
//
// Fields may be empty; a row of nothing but placeholders is still a record.
func ValidateChunkRecord(record *ChunkRecord, dims int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunkRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyID)
	}

	if err := ValidateKind(record.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, err)
	}

	if record.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyDescription)
	}

	if err := ValidateDimensions(record.Vector, dims); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, err)
	}

	return nil
}

// ValidateKind validates that a Kind has a known value.
func ValidateKind(kind Kind) error {
	if kind != KindCustomer && kind != KindCRM {
		return fmt.Errorf("%w: value %d", ErrInvalidKind, kind)
	}
	return nil
}

// ValidateDimensions checks a vector against the expected width.
// A non-positive dims disables the check.
func ValidateDimensions(vector []float32, dims int) error {
	if dims > 0 && len(vector) != dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), dims)
	}
	return nil
}

// ValidateIndexDefinition checks that an index definition is usable.
func ValidateIndexDefinition(def *IndexDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: definition is nil", ErrInvalidIndexDefinition)
	}
	if def.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidIndexDefinition)
	}
	if def.Dimensions < 0 {
		return fmt.Errorf("%w: negative dimensions", ErrInvalidIndexDefinition)
	}
	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field with empty name", ErrInvalidIndexDefinition)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidIndexDefinition, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
