package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
	qc "github.com/qdrant/go-client/qdrant"
)

// Collection implements storage.IndexRepository on one Qdrant collection.
// The document id is kept in the payload; the point id is a UUID derived
// from it.
type Collection struct {
	client pointsClient
	name   string
	dims   int
	schema core.Schema
	logger *slog.Logger
}

var _ storage.IndexRepository = (*Collection)(nil)

func newCollection(client pointsClient, name string, dims int, schema core.Schema) *Collection {
	return &Collection{
		client: client,
		name:   name,
		dims:   dims,
		schema: schema,
		logger: slog.Default().With("component", "qdrant-collection", "index", name),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Schema returns the field types recorded in the collection's payload indexes.
func (c *Collection) Schema(ctx context.Context) (core.Schema, error) {
	return c.schema, nil
}

// Upsert writes doc as a single point.
func (c *Collection) Upsert(ctx context.Context, doc core.Document) error {
	id := doc.ID()
	if id == "" {
		return storage.ErrMissingID
	}
	vector := doc.Vector()
	if err := core.ValidateDimensions(vector, c.dims); err != nil {
		return err
	}

	payload, err := qc.TryValueMap(map[string]any(doc.Attributes()))
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}

	_, err = c.client.Upsert(ctx, &qc.UpsertPoints{
		CollectionName: c.name,
		Wait:           qc.PtrOf(true),
		Points: []*qc.PointStruct{{
			Id:      qc.NewID(PointID(id)),
			Vectors: qc.NewVectors(vector...),
			Payload: payload,
		}},
	})
	if err != nil {
		return fmt.Errorf("upsert %s into %s: %w", id, c.name, err)
	}
	return nil
}

// Search runs a nearest-neighbor query with an optional equality filter.
func (c *Collection) Search(ctx context.Context, req storage.SearchRequest) ([]storage.Hit, error) {
	if err := storage.ValidateRequest(req); err != nil {
		return nil, err
	}

	query := &qc.QueryPoints{
		CollectionName: c.name,
		Query:          qc.NewQuery(req.Vector...),
		Limit:          qc.PtrOf(uint64(req.K)),
		WithPayload:    qc.NewWithPayload(true),
	}
	if len(req.Select) > 0 {
		query.WithPayload = qc.NewWithPayloadInclude(req.Select...)
	}
	if req.Filter != nil {
		query.Filter = &qc.Filter{
			Must: []*qc.Condition{matchCondition(req.Filter)},
		}
	}

	points, err := c.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}

	hits := make([]storage.Hit, 0, len(points))
	for _, point := range points {
		doc := make(core.Document, len(point.GetPayload()))
		for k, v := range point.GetPayload() {
			doc[k] = valueToAny(v)
		}
		hits = append(hits, storage.Hit{Document: doc, Score: point.GetScore()})
	}
	c.logger.Debug("query complete", "hits", len(hits), "k", req.K)
	return hits, nil
}

// Close releases resources. The client is owned by the Store.
func (c *Collection) Close() error {
	return nil
}

// PointID maps a document id onto a Qdrant point id. UUIDs are used as
// they are; any other id is hashed into a name-based UUID.
func PointID(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(id)).String()
}

func matchCondition(f *storage.Equality) *qc.Condition {
	switch v := f.Value.(type) {
	case bool:
		return qc.NewMatchBool(f.Field, v)
	case int:
		return qc.NewMatchInt(f.Field, int64(v))
	case int64:
		return qc.NewMatchInt(f.Field, v)
	case float64:
		return qc.NewRange(f.Field, &qc.Range{Gte: qc.PtrOf(v), Lte: qc.PtrOf(v)})
	case string:
		return qc.NewMatch(f.Field, v)
	default:
		return qc.NewMatch(f.Field, fmt.Sprint(v))
	}
}

func valueToAny(v *qc.Value) any {
	switch kind := v.GetKind().(type) {
	case *qc.Value_StringValue:
		return kind.StringValue
	case *qc.Value_IntegerValue:
		return kind.IntegerValue
	case *qc.Value_DoubleValue:
		return kind.DoubleValue
	case *qc.Value_BoolValue:
		return kind.BoolValue
	case *qc.Value_ListValue:
		items := kind.ListValue.GetValues()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = valueToAny(item)
		}
		return out
	case *qc.Value_StructValue:
		fields := kind.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, item := range fields {
			out[k] = valueToAny(item)
		}
		return out
	default:
		return nil
	}
}
