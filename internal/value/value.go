package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the closed set of variants that
// constraints, consequence fields, and recorded actions are expressed in.
// Only Null, String, Int, Bool, List, and Map implement it.
// NO floats - consequence deltas and graded fields are integral; floats
// break deterministic comparison and canonical serialization.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null value.
// Using an explicit type keeps every Value satisfying the sealed interface.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string value.
type String string

func (String) value() {}

// Int represents an integer value. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// List represents an ordered list of Values. Order is significant.
type List []Value

func (List) value() {}

// Map represents a keyed map of string keys to Values.
// Use SortedKeys() for deterministic iteration.
type Map map[string]Value

func (Map) value() {}

// NewString creates a String value.
func NewString(s string) String {
	return String(s)
}

// NewInt creates an Int value.
func NewInt(n int64) Int {
	return Int(n)
}

// NewBool creates a Bool value.
func NewBool(b bool) Bool {
	return Bool(b)
}

// NewList creates a List from values.
func NewList(vals ...Value) List {
	return List(vals)
}

// Pair represents a key-value pair for typed Map construction.
// This provides compile-time type safety - floats cannot be passed.
type Pair struct {
	Key   string
	Value Value
}

// NewMapFromPairs creates a Map from typed key-value pairs.
// Example: NewMapFromPairs(P("budget", NewInt(-500)), P("tone", NewString("firm")))
func NewMapFromPairs(pairs ...Pair) Map {
	m := make(Map, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// P is a shorthand for Pair for ergonomic construction.
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// Merge returns a new Map holding every entry of base overlaid by every
// entry of over; on key collision the entry from over wins.
// Used to build the merged observable view of a canonical action
// (context fields overlaid by final result fields).
func Merge(base, over Map) Map {
	merged := make(Map, len(base)+len(over))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// UnmarshalJSON implements json.Unmarshaler for Map.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = make(Map, len(raw))
	for k, v := range raw {
		val, err := unmarshalValue(v)
		if err != nil {
			return fmt.Errorf("map key %q: %w", k, err)
		}
		(*m)[k] = val
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for List.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = make(List, len(raw))
	for i, v := range raw {
		val, err := unmarshalValue(v)
		if err != nil {
			return fmt.Errorf("list index %d: %w", i, err)
		}
		(*l)[i] = val
	}
	return nil
}

// unmarshalValue decodes a JSON value into the appropriate Value variant.
// Floats in JSON are rejected. null becomes Null (not nil) so that
// round-tripping existing content keeps the sealed interface satisfied.
func unmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return String(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case 'n':
		return Null{}, nil

	case '[':
		var l List
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		return l, nil

	case '{':
		var m Map
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil

	default:
		// Must be a number - only int64 is allowed
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}

		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("floats are not allowed in graded values: %s", string(data))
		}
		return Int(i), nil
	}
}

// MarshalJSON implements json.Marshaler for Map with sorted keys (RFC 8785
// ordering). NOTE: This is NOT canonical marshaling - it may HTML-escape.
// Use MarshalCanonical for content-addressed hashing and archive payloads.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	keys := m.SortedKeys()
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := Marshal(m[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal marshals a Value to JSON bytes.
// Uses type-switch dispatch to handle all Value variants correctly.
func Marshal(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Bool:
		return json.Marshal(bool(val))
	case List:
		return marshalList(val)
	case Map:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// marshalList marshals a List to JSON bytes.
func marshalList(l List) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := Marshal(elem)
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON into a Value with strict validation.
// Rejects floats; null decodes to Null.
// This is the primary API for external JSON parsing.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	return FromGo(raw)
}

// FromGo recursively converts a decoded Go value (from encoding/json or
// yaml.v3 with generic types) to a Value. Floats are rejected unless they
// carry an exact integral value, which YAML number parsing produces.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are not allowed in graded values: %s", val)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", val)
		}
		return Int(n), nil
	case float64:
		// YAML and encoding/json decode all numbers as float64 unless told
		// otherwise; accept only exact integers.
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return nil, fmt.Errorf("floats are not allowed in graded values: %v", val)
	case []any:
		l := make(List, len(val))
		for i, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			l[i] = converted
		}
		return l, nil
	case map[string]any:
		m := make(Map, len(val))
		for k, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			m[k] = converted
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// MapFromGo converts a map of decoded Go values to a Map.
// Convenience wrapper over FromGo for YAML-parsed argument maps.
func MapFromGo(raw map[string]any) (Map, error) {
	if raw == nil {
		return Map{}, nil
	}
	m := make(Map, len(raw))
	for k, v := range raw {
		converted, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		m[k] = converted
	}
	return m, nil
}
