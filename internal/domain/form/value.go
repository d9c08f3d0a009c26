package form

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the concrete type carried by a Value
type Kind string

const (
	KindString     Kind = "string"
	KindBool       Kind = "bool"
	KindDateTime   Kind = "datetime"
	KindStringList Kind = "stringList"
)

// Value is a discriminated form-data value. Callers inspect the kind and use
// the matching accessor; accessors report whether the value held that kind.
type Value struct {
	kind Kind
	str  string
	b    bool
	t    time.Time
	list []string
}

// String creates a string-kinded value
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool creates a bool-kinded value
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// DateTime creates a datetime-kinded value
func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t}
}

// StringList creates a list-kinded value
func StringList(items []string) Value {
	return Value{kind: KindStringList, list: append([]string{}, items...)}
}

// Kind returns the kind tag of the value
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string payload if the value is string-kinded
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the bool payload if the value is bool-kinded
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsDateTime returns the time payload if the value is datetime-kinded
func (v Value) AsDateTime() (time.Time, bool) {
	return v.t, v.kind == KindDateTime
}

// AsStringList returns the list payload if the value is list-kinded
func (v Value) AsStringList() ([]string, bool) {
	if v.kind != KindStringList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// Text returns a display representation regardless of kind.
// Used when attaching form values to event payloads.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	case KindStringList:
		return fmt.Sprintf("%v", v.list)
	default:
		return ""
	}
}

// jsonValue is the wire representation of a Value
type jsonValue struct {
	Kind  Kind            `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindString:
		payload = v.str
	case KindBool:
		payload = v.b
	case KindDateTime:
		payload = v.t.Format(time.RFC3339Nano)
	case KindStringList:
		payload = v.list
	default:
		return nil, fmt.Errorf("cannot marshal form value of kind %q", v.kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue{Kind: v.kind, Value: raw})
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}

	switch jv.Kind {
	case KindString:
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return err
		}
		*v = String(s)
	case KindBool:
		var b bool
		if err := json.Unmarshal(jv.Value, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case KindDateTime:
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid datetime form value: %w", err)
		}
		*v = DateTime(t)
	case KindStringList:
		var list []string
		if err := json.Unmarshal(jv.Value, &list); err != nil {
			return err
		}
		*v = StringList(list)
	default:
		return fmt.Errorf("unknown form value kind %q", jv.Kind)
	}

	return nil
}

// Data is a submitted form payload keyed by field name.
// Unknown extra keys are preserved verbatim; validators only look at the keys
// they are given.
type Data map[string]Value

// FromMap coerces an untyped key/value payload into typed form data.
// Scalars that are not strings, bools or times are stored via their string
// representation.
func FromMap(raw map[string]any) Data {
	d := make(Data, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			d[key] = String(v)
		case bool:
			d[key] = Bool(v)
		case time.Time:
			d[key] = DateTime(v)
		case []string:
			d[key] = StringList(v)
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			d[key] = StringList(items)
		default:
			d[key] = String(fmt.Sprint(v))
		}
	}
	return d
}

// Keys returns the field names present in the data
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	return keys
}

// Has reports whether a field is present
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Clone returns a copy of the data
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for key, val := range d {
		out[key] = val
	}
	return out
}
