package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/mithril/ai"
	"github.com/poiesic/mithril/ai/mock"
	"github.com/poiesic/mithril/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitsBudget(t *testing.T) {
	tokenizer := &mock.MockTokenizer{CountFunc: func(text string) int { return len(text) }}

	tests := []struct {
		name    string
		content string
		max     int
		want    bool
	}{
		{"under", "abc", 4, true},
		{"exactly at budget", "abcd", 4, true},
		{"one over", "abcde", 4, false},
		{"empty", "", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitsBudget(tokenizer, tt.content, tt.max))
		})
	}
}

func TestBudgetGuard(t *testing.T) {
	_, err := NewBudgetGuard(nil, 10)
	assert.ErrorIs(t, err, ErrTokenizerRequired)

	_, err = NewBudgetGuard(mock.NewMockTokenizer(), 0)
	assert.ErrorIs(t, err, ErrInvalidMaxTokens)

	guard, err := NewBudgetGuard(mock.NewMockTokenizer(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, guard.MaxTokens())

	tokens, ok := guard.Check("one two three")
	assert.Equal(t, 3, tokens)
	assert.True(t, ok)

	tokens, ok = guard.Check("one two three four")
	assert.Equal(t, 4, tokens)
	assert.False(t, ok)
}

func TestBuilder_Build(t *testing.T) {
	embedder := mock.NewMockEmbedderWithDimensions(6)
	builder, err := NewBuilder(embedder, 6)
	require.NoError(t, err)

	fields := core.FieldMap{"CustomerID": "C-1", "Name": "Aria", "Region": "North"}
	chunk, err := builder.Build(context.Background(), fields, core.KindCustomer)
	require.NoError(t, err)

	content, err := fields.Canonical()
	require.NoError(t, err)

	assert.Equal(t, []string{content}, embedder.Texts(), "embeds the canonical form once")
	assert.Equal(t, mock.GenerateVector(content, 6), chunk.Vector)
	assert.Equal(t, core.KindCustomer, chunk.Kind)
	assert.Contains(t, chunk.Description, "Aria")
	assert.Equal(t, core.Fingerprint(content), chunk.Checksum)
	assert.NoError(t, core.ValidateChunkRecord(chunk, 6))

	again, err := builder.Build(context.Background(), fields, core.KindCustomer)
	require.NoError(t, err)
	assert.NotEqual(t, chunk.ID, again.ID, "every build gets a fresh id")
	assert.Equal(t, chunk.Checksum, again.Checksum)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := NewBuilder(nil, 0)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	tests := []struct {
		name    string
		embed   func(context.Context, string) ([]float32, error)
		dims    int
		wantErr error
	}{
		{
			name:    "collaborator error",
			embed:   func(context.Context, string) ([]float32, error) { return nil, errors.New("boom") },
			wantErr: nil,
		},
		{
			name:    "empty vector",
			embed:   func(context.Context, string) ([]float32, error) { return []float32{}, nil },
			wantErr: ai.ErrEmptyEmbedding,
		},
		{
			name:    "wrong width",
			embed:   func(context.Context, string) ([]float32, error) { return []float32{1, 2}, nil },
			dims:    3,
			wantErr: core.ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := mock.NewMockEmbedder()
			embedder.EmbedTextFunc = tt.embed
			builder, err := NewBuilder(embedder, tt.dims)
			require.NoError(t, err)

			chunk, err := builder.Build(context.Background(), core.FieldMap{"OrderID": "O-1"}, core.KindCRM)
			assert.Nil(t, chunk)

			var embErr *ai.EmbeddingError
			require.ErrorAs(t, err, &embErr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuilder_RejectsUnknownKind(t *testing.T) {
	builder, err := NewBuilder(mock.NewMockEmbedder(), 0)
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), core.FieldMap{}, core.Kind(9))
	assert.ErrorIs(t, err, core.ErrInvalidKind)
}
