package style

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Value holds a partial-tier field in the form its source produced it. A
// non-nil *Value is always set; use a nil *Value for "unset".
type Value struct {
	raw any
}

// NewValue wraps raw. A nil raw (JSON/YAML null) yields nil, i.e. unset.
func NewValue(raw any) *Value {
	if raw == nil {
		return nil
	}
	if v, ok := raw.(*Value); ok {
		return v
	}
	return &Value{raw: raw}
}

func StringValue(s string) *Value  { return &Value{raw: s} }
func NumberValue(f float64) *Value { return &Value{raw: f} }
func BoolValue(b bool) *Value      { return &Value{raw: b} }

// Raw returns the wrapped source value.
func (v *Value) Raw() any {
	if v == nil {
		return nil
	}
	return v.raw
}

// Equal reports whether both values wrap deeply equal source values.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	return reflect.DeepEqual(v.raw, o.raw)
}

func (v *Value) String() string {
	if v == nil {
		return "<unset>"
	}
	return fmt.Sprintf("%v", v.raw)
}

func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}
