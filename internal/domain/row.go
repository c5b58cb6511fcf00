package domain

import (
	"fmt"
	"time"
)

// Row is the decoded output for one physical line: one optional value per
// field of the table that matched the line. All typed reads go through the
// accessors below, which fail loudly instead of coercing.
type Row struct {
	values []Value
}

// NewRow wraps values. The slice is owned by the Row afterwards.
func NewRow(values []Value) Row { return Row{values: values} }

// Len returns the number of fields in the row.
func (r Row) Len() int { return len(r.values) }

// Values returns the underlying values for callers that want raw access.
func (r Row) Values() []Value { return r.values }

// Value returns the value at i, or an absent value when i is out of range.
func (r Row) Value(i int) Value {
	if i < 0 || i >= len(r.values) {
		return Value{}
	}
	return r.values[i]
}

// Slice returns values [from, to) for variable-length trailing columns. A
// negative to means through the end of the row.
func (r Row) Slice(from, to int) ([]Value, error) {
	if to < 0 {
		to = len(r.values)
	}
	if from < 0 || from > to || to > len(r.values) {
		return nil, fmt.Errorf("row slice [%d:%d] out of range for %d fields", from, to, len(r.values))
	}
	return r.values[from:to], nil
}

func (r Row) lookup(i int, want Kind, required bool) (Value, bool, error) {
	v := r.Value(i)
	if v.IsAbsent() {
		if required {
			return Value{}, false, NewFieldError(i, ErrRequiredFieldMissing, "", nil)
		}
		return Value{}, false, nil
	}
	if v.kind != want {
		return Value{}, false, &TypeMismatchError{Index: i, Expected: want, Actual: v.kind}
	}
	return v, true, nil
}

// String reads a required string.
func (r Row) String(i int) (string, error) {
	v, _, err := r.lookup(i, KindString, true)
	return v.s, err
}

// OptString reads an optional string; ok is false when absent.
func (r Row) OptString(i int) (string, bool, error) {
	v, ok, err := r.lookup(i, KindString, false)
	return v.s, ok, err
}

// Int reads a required signed integer.
func (r Row) Int(i int) (int64, error) {
	v, _, err := r.lookup(i, KindInt, true)
	return v.i, err
}

// OptInt reads an optional signed integer.
func (r Row) OptInt(i int) (int64, bool, error) {
	v, ok, err := r.lookup(i, KindInt, false)
	return v.i, ok, err
}

// Uint reads a required unsigned integer, such as a frequency in kHz.
func (r Row) Uint(i int) (uint64, error) {
	v, _, err := r.lookup(i, KindUint, true)
	return v.u, err
}

// OptUint reads an optional unsigned integer.
func (r Row) OptUint(i int) (uint64, bool, error) {
	v, ok, err := r.lookup(i, KindUint, false)
	return v.u, ok, err
}

// Float reads a required float, such as a geodesic value in arc-seconds.
func (r Row) Float(i int) (float64, error) {
	v, _, err := r.lookup(i, KindFloat, true)
	return v.f, err
}

// OptFloat reads an optional float.
func (r Row) OptFloat(i int) (float64, bool, error) {
	v, ok, err := r.lookup(i, KindFloat, false)
	return v.f, ok, err
}

// Bool reads a required boolean.
func (r Row) Bool(i int) (bool, error) {
	v, _, err := r.lookup(i, KindBool, true)
	return v.b, err
}

// OptBool reads an optional boolean.
func (r Row) OptBool(i int) (bool, bool, error) {
	v, ok, err := r.lookup(i, KindBool, false)
	return v.b, ok, err
}

// Time reads a required datetime.
func (r Row) Time(i int) (time.Time, error) {
	v, _, err := r.lookup(i, KindTime, true)
	return v.t, err
}

// OptTime reads an optional datetime.
func (r Row) OptTime(i int) (time.Time, bool, error) {
	v, ok, err := r.lookup(i, KindTime, false)
	return v.t, ok, err
}

// Date reads required date components.
func (r Row) Date(i int) (DateComponents, error) {
	v, _, err := r.lookup(i, KindDate, true)
	return v.d, err
}

// OptDate reads optional date components.
func (r Row) OptDate(i int) (DateComponents, bool, error) {
	v, ok, err := r.lookup(i, KindDate, false)
	return v.d, ok, err
}

// List returns a list value. A present list is never reported as missing,
// even when it has no elements.
func (r Row) List(i int) ([]Value, error) {
	v, _, err := r.lookup(i, KindList, true)
	return v.list, err
}

// OptList reads an optional list.
func (r Row) OptList(i int) ([]Value, bool, error) {
	v, ok, err := r.lookup(i, KindList, false)
	return v.list, ok, err
}

// Enum reads an enumeration value of type T from row r.
func Enum[T ~string](r Row, i int) (T, error) {
	v, ok, err := OptEnum[T](r, i)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, NewFieldError(i, ErrRequiredFieldMissing, "", nil)
	}
	return v, nil
}

// OptEnum reads an optional enumeration value of type T from row r.
func OptEnum[T ~string](r Row, i int) (T, bool, error) {
	var zero T
	v, ok, err := r.lookup(i, KindEnum, false)
	if err != nil || !ok {
		return zero, false, err
	}
	e, ok := v.enum.(T)
	if !ok {
		return zero, false, &TypeMismatchError{
			Index:        i,
			Expected:     KindEnum,
			Actual:       KindEnum,
			ExpectedType: fmt.Sprintf("%T", zero),
			ActualType:   fmt.Sprintf("%T", v.enum),
		}
	}
	return e, true, nil
}
