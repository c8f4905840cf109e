package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrUnknownProperty = errors.New("property not registered")
	ErrMissingValue    = errors.New("property has no value")
	ErrKindMismatch    = errors.New("property value kind mismatch")
)

// Value is a float64, bool or string, tagged with its Kind.
type Value struct {
	kind Kind
	f    float64
	b    bool
	s    string
}

func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind returns the value's domain. The zero Value has kind 0.
func (v Value) Kind() Kind { return v.kind }

func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) Bool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) Str() (string, bool)    { return v.s, v.kind == KindString }

// Any unwraps the value into a plain Go value suitable for an engine call.
func (v Value) Any() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	default:
		return "<nil>"
	}
}

// MarshalJSON encodes floats as numbers and bools as booleans. A string that is itself valid
// JSON is emitted as that JSON document, anything else as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("%w: non-finite float %v", ErrKindMismatch, v.f)
		}
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	case KindString:
		if json.Valid([]byte(v.s)) {
			return []byte(v.s), nil
		}
		return json.Marshal(v.s)
	default:
		return nil, ErrMissingValue
	}
}

// Typed converts an untyped payload into a Value of kind.
func Typed(kind Kind, data any) (Value, error) {
	if data == nil {
		return Value{}, ErrMissingValue
	}

	switch kind {
	case KindFloat:
		var f float64
		switch n := data.(type) {
		case float64:
			f = n
		case float32:
			f = float64(n)
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return Value{}, fmt.Errorf("%w: %v", ErrKindMismatch, err)
			}
			f = parsed
		default:
			return Value{}, fmt.Errorf("%w: want float, got %T", ErrKindMismatch, data)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: non-finite float %v", ErrKindMismatch, f)
		}
		return Float(f), nil
	case KindBool:
		b, ok := data.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%w: want bool, got %T", ErrKindMismatch, data)
		}
		return Bool(b), nil
	case KindString:
		s, ok := data.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: want string, got %T", ErrKindMismatch, data)
		}
		return String(s), nil
	default:
		return Value{}, fmt.Errorf("%w: kind %d", ErrKindMismatch, kind)
	}
}

// Property is a named, still untyped engine property as it travels between the UI and the engine.
type Property struct {
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
}

// New builds a Property from an already typed value.
func New(name string, v Value) Property {
	return Property{Name: name, Data: v.Any()}
}

// Value types Data according to the registry.
func (p Property) Value() (Value, error) {
	kind, ok := Lookup(p.Name)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownProperty, p.Name)
	}

	v, err := Typed(kind, p.Data)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	return v, nil
}

// MarshalJSON writes {"name": ..., "data": ...}. data is omitted when the value cannot be typed.
func (p Property) MarshalJSON() ([]byte, error) {
	out := struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data,omitempty"`
	}{Name: p.Name}

	if v, err := p.Value(); err == nil {
		if raw, err := v.MarshalJSON(); err == nil {
			out.Data = raw
		}
	}

	return json.Marshal(out)
}
