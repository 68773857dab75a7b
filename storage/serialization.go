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


package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/poiesic/mithril/core"
)

// MarshalDocument encodes a document for storage.
func MarshalDocument(doc core.Document) ([]byte, error) {
	data, err := json.Marshal(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument decodes a stored document. Whole numbers come back as
// int64 and other numbers as float64; the vector attribute is restored as
// []float32.
func UnmarshalDocument(data []byte) (core.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}

	doc := make(core.Document, len(raw))
	for k, v := range raw {
		if k == core.FieldVector {
			vec, err := decodeVector(v)
			if err != nil {
				return nil, err
			}
			doc[k] = vec
			continue
		}
		doc[k] = NormalizeNumber(v)
	}
	return doc, nil
}

// NormalizeNumber converts a json.Number into int64 when it is whole and
// float64 otherwise. Any other value is returned unchanged.
func NormalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}

func decodeVector(v any) ([]float32, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: vector is %T", ErrSerializationFailed, v)
	}
	vec := make([]float32, len(items))
	for i, item := range items {
		n, ok := item.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: vector element %d is %T", ErrSerializationFailed, i, item)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: vector element %d: %v", ErrSerializationFailed, i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

// MarshalIndexDefinition encodes an index definition for storage.
func MarshalIndexDefinition(def *core.IndexDefinition) ([]byte, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalIndexDefinition decodes a stored index definition.
func UnmarshalIndexDefinition(data []byte) (*core.IndexDefinition, error) {
	var def core.IndexDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &def, nil
}

// Project returns the attributes of doc named in fields. Names missing
// from doc are omitted. An empty field list returns every attribute except
// the vector.
func Project(doc core.Document, fields []string) core.Document {
	if len(fields) == 0 {
		return doc.Attributes()
	}
	out := make(core.Document, len(fields))
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Matches reports whether doc satisfies the equality filter. Values are
// compared by their string forms, so 3 matches "3". A nil filter matches
// everything.
func Matches(doc core.Document, filter *Equality) bool {
	if filter == nil {
		return true
	}
	v, ok := doc[filter.Field]
	if !ok || v == nil {
		return filter.Value == nil
	}
	return fmt.Sprint(v) == fmt.Sprint(filter.Value)
}

// ValidateRequest checks a search request for obvious mistakes.
func ValidateRequest(req SearchRequest) error {
	if len(req.Vector) == 0 {
		return fmt.Errorf("%w: empty query vector", ErrInvalidQuery)
	}
	if req.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidQuery, req.K)
	}
	if req.Filter != nil && req.Filter.Field == "" {
		return fmt.Errorf("%w: filter without field", ErrInvalidQuery)
	}
	return nil
}
