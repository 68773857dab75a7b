package badger

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
)

// Index implements storage.IndexRepository for one index in a BadgerDB
// store. Search is an exhaustive cosine scan.
type Index struct {
	backend *Backend
	def     *core.IndexDefinition
	logger  *slog.Logger
}

var _ storage.IndexRepository = (*Index)(nil)

func newIndex(backend *Backend, def *core.IndexDefinition) *Index {
	return &Index{
		backend: backend,
		def:     def,
		logger:  slog.Default().With("component", "badger-index", "index", def.Name),
	}
}

// Name returns the index name.
func (ix *Index) Name() string {
	return ix.def.Name
}

// Schema returns the declared field types.
func (ix *Index) Schema(ctx context.Context) (core.Schema, error) {
	return ix.def.Schema(), nil
}

// Upsert stores doc under its id, replacing any previous version.
func (ix *Index) Upsert(ctx context.Context, doc core.Document) error {
	id := doc.ID()
	if id == "" {
		return storage.ErrMissingID
	}
	if err := core.ValidateDimensions(doc.Vector(), ix.def.Dimensions); err != nil {
		return err
	}
	if ix.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return err
	}

	return ix.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeIndexDocumentKey(ix.def.Name, id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a document by id.
func (ix *Index) Get(ctx context.Context, id string) (core.Document, error) {
	var doc core.Document
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexDocumentKey(ix.def.Name, id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			doc, unmarshalErr = storage.UnmarshalDocument(val)
			return unmarshalErr
		})
	}, false)
	return doc, err
}

// Count returns the number of documents in the index.
func (ix *Index) Count(ctx context.Context) (int, error) {
	count := 0
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeIndexDocumentPrefix(ix.def.Name)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Search ranks every matching document by cosine similarity to req.Vector.
// The filter field must be declared filterable in the index definition.
// Documents whose vector width differs from the query are skipped.
func (ix *Index) Search(ctx context.Context, req storage.SearchRequest) ([]storage.Hit, error) {
	if err := storage.ValidateRequest(req); err != nil {
		return nil, err
	}
	if req.Filter != nil {
		field, ok := ix.def.Field(req.Filter.Field)
		if !ok || !field.Filterable {
			return nil, fmt.Errorf("%w: field %q is not filterable in %s", storage.ErrInvalidQuery, req.Filter.Field, ix.def.Name)
		}
	}
	if ix.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var hits []storage.Hit
	skipped := 0
	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, makeIndexDocumentPrefix(ix.def.Name), func(val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := storage.UnmarshalDocument(val)
			if err != nil {
				return err
			}
			if !storage.Matches(doc, req.Filter) {
				return nil
			}
			vector := doc.Vector()
			if len(vector) != len(req.Vector) {
				skipped++
				return nil
			}
			hits = append(hits, storage.Hit{
				Document: doc,
				Score:    cosineSimilarity(req.Vector, vector),
			})
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		ix.logger.Debug("skipped documents with mismatched vector width", "count", skipped)
	}

	// Sort by similarity descending, ties by id for stable output
	slices.SortFunc(hits, func(a, b storage.Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Document.ID(), b.Document.ID())
	})

	if len(hits) > req.K {
		hits = hits[:req.K]
	}
	for i := range hits {
		hits[i].Document = storage.Project(hits[i].Document, req.Select)
	}

	return hits, nil
}

// Close releases resources. Index has no resources to release.
func (ix *Index) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when either has zero length.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
