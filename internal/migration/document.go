package migration

import (
	"math"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Document is a decoded save blob before it is bound to PersistedState.
// Migrations work on it so that historical shapes stay expressible.
type Document map[string]any

const versionKey = "version"

// Version returns the document's schema version. A missing or malformed
// version reads as 0.
func (d Document) Version() int {
	v, ok := AsInt64(d[versionKey])
	if !ok {
		return 0
	}
	return int(v)
}

func (d Document) SetVersion(v int) {
	d[versionKey] = v
}

// Map returns the nested object under key, creating it when absent or not
// an object.
func (d Document) Map(key string) map[string]any {
	if m, ok := d[key].(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	d[key] = m
	return m
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case Document:
		return Document(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return t
	}
}

// AsInt64 reads a decoded JSON number regardless of how the decoder
// represented it. Fractions are floored and numeric strings are accepted.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case nil, bool:
		return 0, false
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return int64(math.Floor(f)), true
}
