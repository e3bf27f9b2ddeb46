package runconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	SectionPolicy = "policy"
	SectionTrain  = "train"
	SectionEnv    = "env"
)

// ErrMissingKey reports a key the run configuration is required to carry.
var ErrMissingKey = errors.New("missing configuration key")

// Document is a decoded run configuration. Operations on it return new
// documents and leave their input untouched.
type Document map[string]any

func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func Parse(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Document{}, nil
	}
	return Document(raw), nil
}

func (d Document) Marshal() ([]byte, error) {
	return yaml.Marshal(map[string]any(d))
}

// Clone returns a deep copy. Nested mappings and sequences are copied;
// any other value is shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

// Section returns the named sub-mapping. The returned map belongs to d.
func (d Document) Section(name string) (map[string]any, error) {
	return SubMap(d, name)
}

// SubMap returns m[key] as a mapping, or ErrMissingKey when it is absent
// or not a mapping.
func SubMap(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a mapping", ErrMissingKey, key, v)
	}
	return sub, nil
}

// Lookup follows a dotted path of mapping keys.
func (d Document) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case Document:
		return Document(cloneMap(x))
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	default:
		return v
	}
}

// AsString and friends accept the shapes yaml.v3 produces for scalars.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func AsInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

func AsFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
