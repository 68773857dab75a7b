package core

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// Reserved document attributes added on top of the row fields.
const (
	FieldID          = "id"
	FieldDescription = "description"
	FieldVector      = "vector"
)

// DefaultDimensions is the embedding width of the indexes created by default.
const DefaultDimensions = 1536

// Kind identifies which of the two record domains a chunk belongs to.
type Kind int

const (
	// KindCustomer covers customer master records.
	KindCustomer Kind = iota + 1
	// KindCRM covers order/CRM records.
	KindCRM
)

// Kinds lists every kind in retrieval order.
var Kinds = []Kind{KindCustomer, KindCRM}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindCustomer:
		return "customer"
	case KindCRM:
		return "crm"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ArtifactDir is the directory name chunk files of this kind are written to.
func (k Kind) ArtifactDir() string {
	return k.String() + "_chunks"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if err := ValidateKind(k); err != nil {
		return nil, err
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return KindCustomer, nil
	case "crm":
		return KindCRM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// KindFromFilename routes a source file to a kind by name alone.
// Any file whose base name contains "customer" is a customer table; everything
// else is treated as CRM.
func KindFromFilename(name string) Kind {
	if strings.Contains(strings.ToLower(filepath.Base(name)), "customer") {
		return KindCustomer
	}
	return KindCRM
}

// FieldType is the primitive type a schema declares for a field.
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeInteger
	FieldTypeDouble
	FieldTypeBoolean
)

// String returns the canonical type name.
func (t FieldType) String() string {
	switch t {
	case FieldTypeInteger:
		return "integer"
	case FieldTypeDouble:
		return "double"
	case FieldTypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseFieldType accepts canonical names and the Edm.* names used by
// hosted search index definitions.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "edm.string":
		return FieldTypeString, nil
	case "integer", "int", "edm.int32", "edm.int64":
		return FieldTypeInteger, nil
	case "double", "float", "edm.double":
		return FieldTypeDouble, nil
	case "boolean", "bool", "edm.boolean":
		return FieldTypeBoolean, nil
	default:
		return FieldTypeString, fmt.Errorf("%w: %q", ErrInvalidFieldType, s)
	}
}

// Schema maps field names to their declared primitive types.
type Schema map[string]FieldType

// TypeOf returns the declared type of field, defaulting to String when the
// field is not declared.
func (s Schema) TypeOf(field string) FieldType {
	if t, ok := s[field]; ok {
		return t
	}
	return FieldTypeString
}

// FieldMap holds the typed cells of one table row. Values are int64,
// float64, bool, string or nil.
type FieldMap map[string]any

// Canonical serializes the map with a stable key order. This is the text
// that is token-counted and embedded for a chunk.
func (f FieldMap) Canonical() (string, error) {
	if f == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]any(f))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Fingerprint returns a hex BLAKE2b digest of content. Identical content always
// produces the same fingerprint.
func Fingerprint(content string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// NewChunkID returns a fresh random identifier for a chunk.
func NewChunkID() string {
	return uuid.NewString()
}

// ChunkRecord is the unit of retrieval: one table row with its description
// and embedding.
type ChunkRecord struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Fields      FieldMap  `json:"fields"`
	Description string    `json:"description"`
	Vector      []float32 `json:"vector"`
	Source      string    `json:"source,omitempty"`
	Row         int       `json:"row"`
	Checksum    string    `json:"checksum,omitempty"`
}

// Document flattens the record into index attributes: every field at top
// level plus id, description and vector. Reserved names win over fields of
// the same name.
func (c *ChunkRecord) Document() Document {
	doc := make(Document, len(c.Fields)+3)
	for k, v := range c.Fields {
		doc[k] = v
	}
	doc[FieldID] = c.ID
	doc[FieldDescription] = c.Description
	doc[FieldVector] = c.Vector
	return doc
}

// Document is a flat attribute map as stored in, and returned by, an index.
type Document map[string]any

// ID returns the document identifier, or "" when absent.
func (d Document) ID() string {
	s, _ := d[FieldID].(string)
	return s
}

// Description returns the document description, or "" when absent.
func (d Document) Description() string {
	s, _ := d[FieldDescription].(string)
	return s
}

// Vector returns the embedding stored on the document, if any.
func (d Document) Vector() []float32 {
	switch v := d[FieldVector].(type) {
	case []float32:
		return v
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out
	case []any:
		out := make([]float32, 0, len(v))
		for _, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil
			}
			out = append(out, float32(f))
		}
		return out
	default:
		return nil
	}
}

// Attributes returns a copy of the document without its vector.
func (d Document) Attributes() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == FieldVector {
			continue
		}
		out[k] = v
	}
	return out
}

// FieldDefinition declares one attribute of an index.
type FieldDefinition struct {
	Name       string    `json:"name" toml:"name"`
	Type       FieldType `json:"type" toml:"type"`
	Filterable bool      `json:"filterable" toml:"filterable"`
}

// IndexDefinition describes the layout of a search index.
type IndexDefinition struct {
	Name        string            `json:"name"`
	Fields      []FieldDefinition `json:"fields"`
	VectorField string            `json:"vector_field"`
	Dimensions  int               `json:"dimensions"`
}

// Schema returns the declared attribute types of the index.
func (d *IndexDefinition) Schema() Schema {
	schema := make(Schema, len(d.Fields))
	for _, f := range d.Fields {
		schema[f.Name] = f.Type
	}
	return schema
}

// Field looks up a field definition by name.
func (d *IndexDefinition) Field(name string) (FieldDefinition, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}
