package storage

import (
	"testing"

	"github.com/poiesic/mithril/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalDocument_RestoresTypes(t *testing.T) {
	doc := core.Document{
		"id":          "c-1",
		"Name":        "Aria",
		"Quantity":    int64(3),
		"Price":       1.5,
		"Active":      true,
		"Note":        nil,
		"description": "The customer Aria ...",
		"vector":      []float32{0.25, -0.5, 0.125},
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	decoded, err := UnmarshalDocument(data)
	require.NoError(t, err)

	assert.Equal(t, "c-1", decoded.ID())
	assert.Equal(t, int64(3), decoded["Quantity"])
	assert.Equal(t, 1.5, decoded["Price"])
	assert.Equal(t, true, decoded["Active"])
	assert.Nil(t, decoded["Note"])
	assert.Contains(t, decoded, "Note")
	assert.Equal(t, []float32{0.25, -0.5, 0.125}, decoded.Vector())
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"not json", []byte("not json")},
		{"bad vector", []byte(`{"id":"x","vector":"abc"}`)},
		{"bad vector element", []byte(`{"id":"x","vector":[1,"b"]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestIndexDefinitionRoundTrip(t *testing.T) {
	def := core.CRMIndex("orders")

	data, err := MarshalIndexDefinition(def)
	require.NoError(t, err)

	decoded, err := UnmarshalIndexDefinition(data)
	require.NoError(t, err)
	assert.Equal(t, def, decoded)
}

func TestProject(t *testing.T) {
	doc := core.Document{"id": "1", "Name": "Aria", "CSU": "East", "vector": []float32{1}}

	t.Run("empty selection drops vector", func(t *testing.T) {
		got := Project(doc, nil)
		assert.Equal(t, core.Document{"id": "1", "Name": "Aria", "CSU": "East"}, got)
	})

	t.Run("named fields only", func(t *testing.T) {
		got := Project(doc, []string{"Name", "Missing"})
		assert.Equal(t, core.Document{"Name": "Aria"}, got)
	})
}

func TestMatches(t *testing.T) {
	doc := core.Document{"CSU": "East", "Quantity": int64(3), "Note": nil}

	tests := []struct {
		name   string
		filter *Equality
		want   bool
	}{
		{"nil filter", nil, true},
		{"string equal", &Equality{Field: "CSU", Value: "East"}, true},
		{"string differs", &Equality{Field: "CSU", Value: "West"}, false},
		{"number by string form", &Equality{Field: "Quantity", Value: "3"}, true},
		{"missing field", &Equality{Field: "Region", Value: "East"}, false},
		{"null matches nil", &Equality{Field: "Note", Value: nil}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(doc, tt.filter))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(SearchRequest{Vector: []float32{1}, K: 1}))
	assert.ErrorIs(t, ValidateRequest(SearchRequest{K: 1}), ErrInvalidQuery)
	assert.ErrorIs(t, ValidateRequest(SearchRequest{Vector: []float32{1}}), ErrInvalidQuery)
	assert.ErrorIs(t, ValidateRequest(SearchRequest{
		Vector: []float32{1}, K: 1, Filter: &Equality{Value: "x"},
	}), ErrInvalidQuery)
}
