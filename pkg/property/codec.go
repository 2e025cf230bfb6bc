// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package property is the codec between in-program property values and the
// engine's wire form. Serialization walks arbitrarily nested values, awaits
// deferred values it encounters, substitutes the unknown sentinel for values
// that are not yet apply-eligible, and reports every resource referenced
// inside the bag so the caller can record implicit dependencies.
package property

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	goccy "github.com/goccy/go-json"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Deferred is a value that resolves asynchronously. Await blocks until both
// the raw value and the apply-eligibility flag are settled.
type Deferred interface {
	Await(ctx context.Context) (value any, known bool, err error)
}

// Reference is a resource encountered inside a property bag. Serialization
// flattens it to its URN and records it as an implicit dependency.
type Reference interface {
	ResourceURN() Deferred
}

// Serialize converts a single value to wire form. Deferred values are
// awaited; unknown ones become the unknown sentinel. Resource references are
// flattened to their URN and collected into deps.
func Serialize(ctx context.Context, v any) (any, []Reference, error) {
	var deps []Reference
	wire, err := serialize(ctx, v, &deps)
	if err != nil {
		return nil, nil, err
	}
	return wire, deps, nil
}

// SerializeProperties converts a property bag to wire form. Keys whose
// serialized value is nil are omitted rather than defaulted.
func SerializeProperties(ctx context.Context, props map[string]any) (map[string]any, []Reference, error) {
	var deps []Reference
	wire := make(map[string]any, len(props))
	for k, v := range props {
		sv, err := serialize(ctx, v, &deps)
		if err != nil {
			return nil, nil, fmt.Errorf("serializing property %q: %w", k, err)
		}
		if sv == nil {
			continue
		}
		wire[k] = sv
	}
	return wire, deps, nil
}

func serialize(ctx context.Context, v any, deps *[]Reference) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Reference:
		*deps = append(*deps, t)
		urn, _, err := t.ResourceURN().Await(ctx)
		if err != nil {
			return nil, err
		}
		return urn, nil
	case Deferred:
		val, known, err := t.Await(ctx)
		if err != nil {
			return nil, err
		}
		if !known {
			return model.UnknownPropertySentinel, nil
		}
		return serialize(ctx, val, deps)
	case bool, string, int, int32, int64, float32, float64, json.Number:
		return t, nil
	case model.URN:
		return string(t), nil
	case model.ID:
		return string(t), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			se, err := serialize(ctx, e, deps)
			if err != nil {
				return nil, err
			}
			if se == nil {
				continue
			}
			out[k] = se
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			se, err := serialize(ctx, e, deps)
			if err != nil {
				return nil, err
			}
			out = append(out, se)
		}
		return out, nil
	}

	// Typed slices and maps ([]string, map[string]int, ...) arrive from user
	// programs; flatten them through reflection.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			se, err := serialize(ctx, rv.Index(i).Interface(), deps)
			if err != nil {
				return nil, err
			}
			out = append(out, se)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			se, err := serialize(ctx, rv.MapIndex(k).Interface(), deps)
			if err != nil {
				return nil, err
			}
			if se == nil {
				continue
			}
			out[k.String()] = se
		}
		return out, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return serialize(ctx, rv.Elem().Interface(), deps)
	}

	return nil, fmt.Errorf("unsupported property value of type %T", v)
}

// Deserialize converts a wire value back to its in-memory form, mapping the
// unknown sentinel to model.Unknown.
func Deserialize(v any) any {
	switch t := v.(type) {
	case string:
		if t == model.UnknownPropertySentinel {
			return model.Unknown{}
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Deserialize(e)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, Deserialize(e))
		}
		return out
	default:
		return v
	}
}

// ContainsUnknown reports whether a deserialized value is, or contains at any
// depth, the unknown marker. A value with a nested unknown must not be
// treated as apply-eligible: consumers would observe placeholder data.
func ContainsUnknown(v any) bool {
	switch t := v.(type) {
	case model.Unknown:
		return true
	case map[string]any:
		for _, e := range t {
			if ContainsUnknown(e) {
				return true
			}
		}
	case []any:
		for _, e := range t {
			if ContainsUnknown(e) {
				return true
			}
		}
	}
	return false
}

// RoundTrip serializes and immediately deserializes a value. The merge step
// uses it to normalize original inputs the same way engine-returned values
// are normalized, which uniformly handles unknown sentinels between preview
// and real runs. A nil result means the value has no wire form and its key
// should be dropped.
func RoundTrip(ctx context.Context, v any) (any, error) {
	wire, _, err := Serialize(ctx, v)
	if err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, nil
	}
	return Deserialize(wire), nil
}

// Marshal encodes a wire property bag as JSON for transmission.
func Marshal(props map[string]any) (json.RawMessage, error) {
	if len(props) == 0 {
		return nil, nil
	}
	raw, err := goccy.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal properties: %w", err)
	}
	return raw, nil
}

// Unmarshal decodes an engine-returned JSON property bag and deserializes
// its values. A nil or empty payload yields an empty bag.
func Unmarshal(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var wire map[string]any
	if err := goccy.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	out := make(map[string]any, len(wire))
	for k, v := range wire {
		out[k] = Deserialize(v)
	}
	return out, nil
}
