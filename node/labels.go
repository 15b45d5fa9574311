package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Value is one scalar label value: a string, a signed integer, a
// floating-point number, or a boolean. It is a tagged union rather than a
// bare `any` so that a JSON round trip preserves the scalar's category —
// an integer label stays an integer, never silently widening to float64
// the way a plain map[string]any decoded by encoding/json would.
type Value struct {
	str    string
	i64    int64
	f64    float64
	b      bool
	isStr  bool
	isInt  bool
	isF64  bool
	isBool bool
}

// String wraps a string label value.
func String(s string) Value { return Value{str: s, isStr: true} }

// Int wraps an integer label value.
func Int(n int64) Value { return Value{i64: n, isInt: true} }

// Float wraps a floating-point label value.
func Float(f float64) Value { return Value{f64: f, isF64: true} }

// Bool wraps a boolean label value.
func Bool(b bool) Value { return Value{b: b, isBool: true} }

// Any returns the wrapped value as a string, int64, float64 or bool.
func (v Value) Any() any {
	switch {
	case v.isStr:
		return v.str
	case v.isInt:
		return v.i64
	case v.isF64:
		return v.f64
	case v.isBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON implements json.Unmarshaler, preserving whether a numeric
// literal was written as an integer or a float.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case bool:
		*v = Bool(t)
	case json.Number:
		if !strings.ContainsAny(string(t), ".eE") {
			if n, err := t.Int64(); err == nil {
				*v = Int(n)
				return nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("node: label value %q is not a valid number", t)
		}
		*v = Float(f)
	default:
		return fmt.Errorf("node: label values must be string, number or bool, got %T", raw)
	}
	return nil
}

// Labels is a node's heartbeat-reported metadata: an ordinary JSON object
// whose values are restricted to scalars.
type Labels map[string]Value

// ParseLabels decodes a JSON object of scalar label values.
//
// It rejects a top-level JSON array, and rejects any value that is
// itself an array or object — labels are a flat map of scalars, never
// nested structure.
func ParseLabels(data []byte) (Labels, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Labels{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("node: labels must decode to a JSON object: %w", err)
	}
	labels := make(Labels, len(raw))
	for key, v := range raw {
		var value Value
		if err := value.UnmarshalJSON(v); err != nil {
			return nil, fmt.Errorf("node: label %q: %w", key, err)
		}
		labels[key] = value
	}
	return labels, nil
}
