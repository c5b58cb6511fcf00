package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by layout loading, dispatch, transformation and row
// access. Concrete errors wrap one of these so callers can match with
// errors.Is.
var (
	ErrMalformedLayout      = errors.New("malformed layout line")
	ErrFieldBeforeGroup     = errors.New("field defined before any group")
	ErrFieldPastLineEnd     = errors.New("field past end of line")
	ErrUnknownRecordType    = errors.New("unknown record identifier")
	ErrBadData              = errors.New("bad data")
	ErrRequiredFieldMissing = errors.New("required field missing")
	ErrInvalidNumber        = errors.New("invalid number")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrInvalidGeodesic      = errors.New("invalid geodesic")
	ErrInvalidValue         = errors.New("invalid value")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrConversion           = errors.New("conversion error")
	ErrUnknownEnumValue     = errors.New("unknown enumerated value")
	ErrUnencodable          = errors.New("row not encodable")
)

// FieldError reports a failure decoding or reading one column of a line.
type FieldError struct {
	Index int
	Value string
	Kind  error
	Err   error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("field %d: %v", e.Index, e.Kind)
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewFieldError builds a FieldError for the given kind.
func NewFieldError(index int, kind error, value string, cause error) *FieldError {
	return &FieldError{Index: index, Value: value, Kind: kind, Err: cause}
}

// TypeMismatchError is returned by Row accessors when the stored value has a
// different dynamic type than the one requested.
type TypeMismatchError struct {
	Index    int
	Expected Kind
	Actual   Kind
	// ExpectedType and ActualType name the Go types when both values are
	// enumerations of different types.
	ExpectedType string
	ActualType   string
}

func (e *TypeMismatchError) Error() string {
	if e.ExpectedType != "" {
		return fmt.Sprintf("field %d: type mismatch: expected %s, got %s", e.Index, e.ExpectedType, e.ActualType)
	}
	return fmt.Sprintf("field %d: type mismatch: expected %s, got %s", e.Index, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// LayoutError reports a malformed line in a layout-description file.
type LayoutError struct {
	Family string
	Line   int
	Text   string
	Err    error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout %s line %d: %v: %q", e.Family, e.Line, e.Err, e.Text)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// RecordError reports a dispatch failure for one physical line.
type RecordError struct {
	Tag string
	Err error
}

func (e *RecordError) Error() string {
	if e.Tag == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v %q", e.Err, e.Tag)
}

func (e *RecordError) Unwrap() error { return e.Err }

// LineError scopes any decoding failure to a family and 1-based line number.
type LineError struct {
	Family string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.Family, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

var classes = []struct {
	err  error
	name string
}{
	{ErrMalformedLayout, "malformed_layout"},
	{ErrFieldBeforeGroup, "field_before_group"},
	{ErrFieldPastLineEnd, "field_past_line_end"},
	{ErrUnknownRecordType, "unknown_record_type"},
	{ErrBadData, "bad_data"},
	{ErrRequiredFieldMissing, "required_field_missing"},
	{ErrUnknownEnumValue, "unknown_enum_value"},
	{ErrInvalidNumber, "invalid_number"},
	{ErrInvalidDate, "invalid_date"},
	{ErrInvalidFrequency, "invalid_frequency"},
	{ErrInvalidGeodesic, "invalid_geodesic"},
	{ErrInvalidValue, "invalid_value"},
	{ErrTypeMismatch, "type_mismatch"},
	{ErrConversion, "conversion_error"},
	{ErrUnencodable, "unencodable_row"},
}

// Classify returns a short label for err suitable for metric labels and
// summaries. Unrecognised errors are reported as "other".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.name
		}
	}
	return "other"
}
