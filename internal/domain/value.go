package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

// Value kinds.
const (
	KindAbsent Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindBool
	KindTime
	KindDate
	KindList
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one decoded column. The zero Value is absent.
type Value struct {
	kind Kind
	s    string
	i    int64
	u    uint64
	f    float64
	b    bool
	t    time.Time
	d    DateComponents
	list []Value
	enum any
}

// StringValue holds a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue holds a signed integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// UintValue holds an unsigned integer.
func UintValue(u uint64) Value { return Value{kind: KindUint, u: u} }

// FloatValue holds a float. Encoding fails for NaN and infinities.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue holds a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// TimeValue holds a datetime.
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// DateValue holds possibly partial date components.
func DateValue(d DateComponents) Value { return Value{kind: KindDate, d: d} }

// ListValue holds array elements, which may themselves be absent.
func ListValue(elems []Value) Value { return Value{kind: KindList, list: elems} }

// EnumValue wraps a caller-defined enumeration constant. The concrete type is
// recovered with the Enum accessors on Row.
func EnumValue[T ~string](v T) Value { return Value{kind: KindEnum, enum: v} }

// Kind returns the dynamic type held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v holds no value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsPresent is the negation of IsAbsent.
func (v Value) IsPresent() bool { return v.kind != KindAbsent }

// Any returns the Go value held, or nil when absent. Lists are returned as
// []any so the result is safe to hand to encoders.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindDate:
		return v.d
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Any()
		}
		return out
	case KindEnum:
		return v.enum
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.kind == KindAbsent {
		return "<absent>"
	}
	return fmt.Sprint(v.Any())
}

// MarshalJSON encodes absent as null, times as RFC 3339, dates in their
// textual form and enums as their string value.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindTime:
		return json.Marshal(v.t.UTC().Format(time.RFC3339))
	case KindDate:
		return json.Marshal(v.d.String())
	case KindEnum:
		return json.Marshal(fmt.Sprint(v.enum))
	case KindList:
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.Any())
	}
}
