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


package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
	qc "github.com/qdrant/go-client/qdrant"
)

// Store implements storage.IndexAdmin with one Qdrant collection per index.
type Store struct {
	client pointsClient
	logger *slog.Logger
}

var _ storage.IndexAdmin = (*Store)(nil)

func newStore(client pointsClient) *Store {
	return &Store{
		client: client,
		logger: slog.Default().With("component", "qdrant-store"),
	}
}

// EnsureIndex creates a cosine collection of def.Dimensions and a payload
// index for every declared field, so the field types can be read back.
// An existing collection is left untouched.
func (s *Store) EnsureIndex(ctx context.Context, def *core.IndexDefinition) error {
	if err := core.ValidateIndexDefinition(def); err != nil {
		return err
	}
	if def.Dimensions <= 0 {
		return fmt.Errorf("%w: %s", ErrDimensionsRequired, def.Name)
	}

	exists, err := s.client.CollectionExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", def.Name, err)
	}
	if exists {
		s.logger.Debug("collection already exists", "index", def.Name)
		return nil
	}

	err = s.client.CreateCollection(ctx, &qc.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig: qc.NewVectorsConfig(&qc.VectorParams{
			Size:     uint64(def.Dimensions),
			Distance: qc.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", def.Name, err)
	}

	for _, field := range def.Fields {
		_, err := s.client.CreateFieldIndex(ctx, &qc.CreateFieldIndexCollection{
			CollectionName: def.Name,
			Wait:           qc.PtrOf(true),
			FieldName:      field.Name,
			FieldType:      payloadFieldType(field.Type).Enum(),
		})
		if err != nil {
			return fmt.Errorf("create payload index %s.%s: %w", def.Name, field.Name, err)
		}
	}

	s.logger.Info("created collection", "index", def.Name, "fields", len(def.Fields), "dimensions", def.Dimensions)
	return nil
}

// Index opens the collection called name.
func (s *Store) Index(ctx context.Context, name string) (storage.IndexRepository, error) {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check collection %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrIndexNotFound, name)
	}

	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("describe collection %s: %w", name, err)
	}

	dims := int(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize())
	return newCollection(s.client, name, dims, schemaFromPayload(info.GetPayloadSchema())), nil
}

// Close closes the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func payloadFieldType(t core.FieldType) qc.FieldType {
	switch t {
	case core.FieldTypeInteger:
		return qc.FieldType_FieldTypeInteger
	case core.FieldTypeDouble:
		return qc.FieldType_FieldTypeFloat
	case core.FieldTypeBoolean:
		return qc.FieldType_FieldTypeBool
	default:
		return qc.FieldType_FieldTypeKeyword
	}
}

func schemaFromPayload(payload map[string]*qc.PayloadSchemaInfo) core.Schema {
	schema := make(core.Schema, len(payload))
	for name, info := range payload {
		switch info.GetDataType() {
		case qc.PayloadSchemaType_Integer:
			schema[name] = core.FieldTypeInteger
		case qc.PayloadSchemaType_Float:
			schema[name] = core.FieldTypeDouble
		case qc.PayloadSchemaType_Bool:
			schema[name] = core.FieldTypeBoolean
		default:
			schema[name] = core.FieldTypeString
		}
	}
	return schema
}
