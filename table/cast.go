package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/mithril/core"
)

// Cast converts a cell to the declared field type.
//
// Strings are parsed according to t. Values that already carry the Go type
// of t are returned unchanged. Empty strings and nil become nil. When a
// numeric string cannot be parsed, or parses to NaN or an infinity, the raw
// value is returned and degraded is true; the caller decides how loudly to
// report it.
func Cast(value any, t core.FieldType) (result any, degraded bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		if v == "" {
			return nil, false
		}
		return castString(v, t)
	case int64:
		if t == core.FieldTypeInteger {
			return v, false
		}
	case int:
		if t == core.FieldTypeInteger {
			return int64(v), false
		}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'g', -1, 64), true
		}
		if t == core.FieldTypeDouble {
			return v, false
		}
	case bool:
		if t == core.FieldTypeBoolean {
			return v, false
		}
	}
	// Typed value that does not match the declared type.
	return value, true
}

func castString(s string, t core.FieldType) (any, bool) {
	switch t {
	case core.FieldTypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return s, true
		}
		return n, false
	case core.FieldTypeDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		// NaN and Inf parse but have no JSON form.
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return s, true
		}
		return f, false
	case core.FieldTypeBoolean:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1":
			return true, false
		default:
			return false, false
		}
	default:
		return s, false
	}
}
