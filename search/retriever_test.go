package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/poiesic/mithril/ai/mock"
	"github.com/poiesic/mithril/core"
	"github.com/poiesic/mithril/storage"
	"github.com/poiesic/mithril/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingIndex is an index whose searches always fail.
type failingIndex struct{}

func (failingIndex) Name() string                                { return "broken" }
func (failingIndex) Schema(context.Context) (core.Schema, error) { return nil, nil }
func (failingIndex) Upsert(context.Context, core.Document) error { return nil }
func (failingIndex) Close() error                                { return nil }
func (failingIndex) Search(context.Context, storage.SearchRequest) ([]storage.Hit, error) {
	return nil, errors.New("index offline")
}

// recordingMonitor captures monitor callbacks.
type recordingMonitor struct {
	noopMonitor
	started  string
	searched []string
	finished int
}

func (m *recordingMonitor) Start(query, _ string) { m.started = query }
func (m *recordingMonitor) AfterIndexSearch(kind core.Kind, _ string, hits int) {
	m.searched = append(m.searched, kind.String())
}
func (m *recordingMonitor) Finish(results []Document) { m.finished = len(results) }

func seed(t *testing.T, index storage.IndexRepository, kind core.Kind, rows ...core.FieldMap) {
	t.Helper()
	for i, fields := range rows {
		content, err := fields.Canonical()
		require.NoError(t, err)
		chunk := &core.ChunkRecord{
			ID:          index.Name() + "-" + string(rune('a'+i)),
			Kind:        kind,
			Fields:      fields,
			Description: content,
			Vector:      mock.GenerateVector(content, core.DefaultDimensions),
		}
		require.NoError(t, index.Upsert(context.Background(), chunk.Document()))
	}
}

func openTargets(t *testing.T) []Target {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.EnsureIndex(ctx, core.CustomerIndex("customers")))
	require.NoError(t, store.EnsureIndex(ctx, core.CRMIndex("orders")))
	customers, err := store.Index(ctx, "customers")
	require.NoError(t, err)
	orders, err := store.Index(ctx, "orders")
	require.NoError(t, err)

	return []Target{
		{Kind: core.KindCustomer, Index: customers, Select: core.DefaultSelect(core.KindCustomer)},
		{Kind: core.KindCRM, Index: orders, Select: core.DefaultSelect(core.KindCRM)},
	}
}

func TestNewRetriever(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	targets := openTargets(t)

	t.Run("valid configuration", func(t *testing.T) {
		r, err := NewRetriever(embedder, targets, WithLogger(slog.Default()), WithScopeField("Region"))
		require.NoError(t, err)
		assert.Equal(t, "Region", r.scopeField)
	})

	t.Run("empty scope field falls back to default", func(t *testing.T) {
		r, err := NewRetriever(embedder, targets, WithScopeField(""), WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, core.DefaultScopeField, r.scopeField)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRetriever(nil, targets)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("no targets", func(t *testing.T) {
		_, err := NewRetriever(embedder, nil)
		assert.Equal(t, ErrTargetsRequired, err)
	})

	t.Run("target without index", func(t *testing.T) {
		_, err := NewRetriever(embedder, []Target{{Kind: core.KindCRM}})
		assert.ErrorIs(t, err, ErrIndexRequired)
	})
}

func TestRetrieve_EmptyIndexes(t *testing.T) {
	r, err := NewRetriever(mock.NewMockEmbedder(), openTargets(t))
	require.NoError(t, err)

	docs, err := r.Retrieve(context.Background(), "who buys mithril?", "", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrieve_ConcatenatesCustomerThenCRM(t *testing.T) {
	targets := openTargets(t)
	seed(t, targets[0].Index, core.KindCustomer,
		core.FieldMap{"CustomerID": "C-1", "Name": "Aria", "CSU": "East"},
		core.FieldMap{"CustomerID": "C-2", "Name": "Borin", "CSU": "West"},
	)
	seed(t, targets[1].Index, core.KindCRM,
		core.FieldMap{"OrderID": "O-1", "CustomerID": "C-1", "Quantity": int64(3), "CSU": "East"},
	)

	embedder := mock.NewMockEmbedder()
	r, err := NewRetriever(embedder, targets)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	docs, err := r.RetrieveWithMonitor(context.Background(), "orders from Aria", "", 10, monitor)
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, core.KindCustomer, docs[0].Kind)
	assert.Equal(t, core.KindCustomer, docs[1].Kind)
	assert.Equal(t, core.KindCRM, docs[2].Kind)
	assert.Equal(t, "orders", docs[2].Index)
	assert.Equal(t, int64(3), docs[2].Fields["Quantity"])
	assert.NotEmpty(t, docs[2].Description())
	assert.NotContains(t, docs[0].Fields, core.FieldVector)

	assert.Equal(t, 1, embedder.CallCount(), "one query embedding shared by every index")
	assert.Equal(t, "orders from Aria", monitor.started)
	assert.Equal(t, []string{"customer", "crm"}, monitor.searched)
	assert.Equal(t, 3, monitor.finished)
}

func TestRetrieve_ScopeFilterAndK(t *testing.T) {
	targets := openTargets(t)
	seed(t, targets[0].Index, core.KindCustomer,
		core.FieldMap{"CustomerID": "C-1", "Name": "Aria", "CSU": "East"},
		core.FieldMap{"CustomerID": "C-2", "Name": "Borin", "CSU": "West"},
		core.FieldMap{"CustomerID": "C-3", "Name": "Cale", "CSU": "East"},
	)
	seed(t, targets[1].Index, core.KindCRM,
		core.FieldMap{"OrderID": "O-1", "CSU": "West"},
	)

	r, err := NewRetriever(mock.NewMockEmbedder(), targets)
	require.NoError(t, err)

	docs, err := r.Retrieve(context.Background(), "eastern customers", "East", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, "East", d.Fields["CSU"])
	}

	docs, err = r.Retrieve(context.Background(), "eastern customers", "East", 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = r.Retrieve(context.Background(), "eastern customers", "East", 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestRetrieve_FailsFastOnIndexError(t *testing.T) {
	targets := openTargets(t)
	seed(t, targets[0].Index, core.KindCustomer, core.FieldMap{"CustomerID": "C-1", "Name": "Aria"})
	targets[1].Index = failingIndex{}

	r, err := NewRetriever(mock.NewMockEmbedder(), targets)
	require.NoError(t, err)

	docs, err := r.Retrieve(context.Background(), "anything", "", 5)
	assert.Nil(t, docs)

	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, core.KindCRM, searchErr.Kind)
	assert.Equal(t, "broken", searchErr.Index)
	assert.EqualError(t, searchErr.Err, "index offline")
}

func TestRetrieve_EmbeddingError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	}
	r, err := NewRetriever(embedder, openTargets(t))
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "anything", "", 5)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestLogMonitor(t *testing.T) {
	m := NewLogMonitor(nil)
	assert.NotPanics(t, func() {
		m.Start("q", "East")
		m.AfterQueryEmbedding([]float32{1})
		m.AfterIndexSearch(core.KindCRM, "orders", 2)
		m.Finish(nil)
	})
}
