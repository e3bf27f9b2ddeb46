package envparams

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRange is returned for list overrides that are not a single value
// or a [lower, upper] pair.
var ErrInvalidRange = errors.New("parameter range must have one or two elements")

// DeriveBounds builds the lower and upper parameter bundles for envName.
// Each override that names a bundle field is either a scalar, applied to both
// bounds, or a one- or two-element list giving lower and upper. Overrides for
// unknown fields are ignored.
func DeriveBounds(envName string, overrides map[string]any) (Params, Params, error) {
	kind, err := ParseKind(envName)
	if err != nil {
		return Params{}, Params{}, err
	}
	defaults, err := Defaults(kind)
	if err != nil {
		return Params{}, Params{}, err
	}

	lowerFields, err := toFields(defaults)
	if err != nil {
		return Params{}, Params{}, err
	}
	upperFields, err := toFields(defaults)
	if err != nil {
		return Params{}, Params{}, err
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := lowerFields[key]; !ok {
			continue
		}
		lo, hi, err := splitRange(overrides[key])
		if err != nil {
			return Params{}, Params{}, fmt.Errorf("%s: %w", key, err)
		}
		lowerFields[key] = lo
		upperFields[key] = hi
	}

	lower, err := fromFields(lowerFields)
	if err != nil {
		return Params{}, Params{}, fmt.Errorf("lower bound: %w", err)
	}
	upper, err := fromFields(upperFields)
	if err != nil {
		return Params{}, Params{}, fmt.Errorf("upper bound: %w", err)
	}
	return lower, upper, nil
}

func splitRange(v any) (any, any, error) {
	list, ok := v.([]any)
	if !ok {
		return v, v, nil
	}
	switch len(list) {
	case 1:
		return list[0], list[0], nil
	case 2:
		return list[0], list[1], nil
	default:
		return nil, nil, fmt.Errorf("%w, got %d", ErrInvalidRange, len(list))
	}
}

// Fields returns the bundle as a mapping keyed by YAML field name.
func (p Params) Fields() (map[string]any, error) {
	return toFields(p)
}

func toFields(p Params) (map[string]any, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func fromFields(fields map[string]any) (Params, error) {
	data, err := yaml.Marshal(fields)
	if err != nil {
		return Params{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Params
	if err := dec.Decode(&p); err != nil {
		return Params{}, err
	}
	return p, nil
}
