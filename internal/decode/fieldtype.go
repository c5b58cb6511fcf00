package decode

import (
	"github.com/couchcryptid/nasr-etl/internal/domain"
)

// Converter turns one trimmed, non-absent token into a value.
type Converter func(string) (domain.Value, error)

type nullKind uint8

const (
	nullNotNull nullKind = iota
	nullBlank
	nullCompact
	nullSentinel
)

// Nullability decides when a column's content means "no value".
type Nullability struct {
	kind      nullKind
	sentinels []string
}

var (
	// NotNull treats empty content as a required-field-missing error.
	NotNull = Nullability{kind: nullNotNull}
	// Blank treats empty content as absent.
	Blank = Nullability{kind: nullBlank}
	// Compact is Blank, and also drops absent elements from arrays.
	Compact = Nullability{kind: nullCompact}
)

// Sentinel treats the given literal tokens as absent. Empty content is not
// absent under this policy unless "" is one of the tokens.
func Sentinel(tokens ...string) Nullability {
	return Nullability{kind: nullSentinel, sentinels: tokens}
}

func (n Nullability) isSentinel(s string) bool {
	for _, tok := range n.sentinels {
		if s == tok {
			return true
		}
	}
	return false
}

type typeKind uint8

const (
	typeRecordType typeKind = iota
	typeIgnored
	typeString
	typeInt
	typeUint
	typeFloat
	typeGeodesic
	typeFrequency
	typeBool
	typeDateTime
	typeDate
	typeFixedArray
	typeDelimitedArray
	typeGeneric
)

// FieldType declares how one column is converted. Build values with the
// constructors below; the zero FieldType is a record-type marker.
type FieldType struct {
	kind      typeKind
	null      Nullability
	noTrim    bool
	trueToken string
	layout    string
	date      domain.DateFormat
	width     int
	delimiter string
	convert   Converter
	empties   []string
}

// RecordType marks the discriminator column. Its trimmed content is kept
// as a string.
func RecordType() FieldType { return FieldType{kind: typeRecordType, null: Blank} }

// IsRecordType reports whether ft marks the discriminator column.
func (ft FieldType) IsRecordType() bool { return ft.kind == typeRecordType }

// Ignored columns always decode as absent.
func Ignored() FieldType { return FieldType{kind: typeIgnored, null: Blank} }

// String keeps the trimmed column text.
func String(n Nullability) FieldType { return FieldType{kind: typeString, null: n} }

// Int parses a base-10 signed integer.
func Int(n Nullability) FieldType { return FieldType{kind: typeInt, null: n} }

// Uint parses a base-10 unsigned integer.
func Uint(n Nullability) FieldType { return FieldType{kind: typeUint, null: n} }

// Float parses plain decimal text; NaN, infinities, exponents and hex
// floats are invalid numbers.
func Float(n Nullability) FieldType { return FieldType{kind: typeFloat, null: n} }

// Geodesic parses a DMS coordinate into signed arc-seconds.
func Geodesic(n Nullability) FieldType { return FieldType{kind: typeGeodesic, null: n} }

// Frequency parses a MHz.kHz token into kilohertz.
func Frequency(n Nullability) FieldType { return FieldType{kind: typeFrequency, null: n} }

// Bool is true only when the trimmed token equals trueToken. Every other
// present token, including unexpected ones, is false.
func Bool(trueToken string, n Nullability) FieldType {
	return FieldType{kind: typeBool, null: n, trueToken: trueToken}
}

// DateTime parses with a time.Parse layout, in UTC.
func DateTime(layout string, n Nullability) FieldType {
	return FieldType{kind: typeDateTime, null: n, layout: layout}
}

// Date parses with one of the published date layouts, allowing partial dates.
func Date(format domain.DateFormat, n Nullability) FieldType {
	return FieldType{kind: typeDate, null: n, date: format}
}

// ArrayOption configures array descriptors.
type ArrayOption func(*FieldType)

// WithElement converts each present element. Without it elements are strings.
func WithElement(c Converter) ArrayOption {
	return func(ft *FieldType) { ft.convert = c }
}

// WithEmptyPlaceholders lists literal tokens meaning "no elements".
func WithEmptyPlaceholders(tokens ...string) ArrayOption {
	return func(ft *FieldType) { ft.empties = tokens }
}

// FixedArray splits the column into elements of width bytes. The
// nullability applies to each element; Compact drops absent elements.
func FixedArray(width int, n Nullability, opts ...ArrayOption) FieldType {
	ft := FieldType{kind: typeFixedArray, null: n, width: width}
	for _, o := range opts {
		o(&ft)
	}
	return ft
}

// DelimitedArray splits the column on a literal delimiter.
func DelimitedArray(delimiter string, n Nullability, opts ...ArrayOption) FieldType {
	ft := FieldType{kind: typeDelimitedArray, null: n, delimiter: delimiter}
	for _, o := range opts {
		o(&ft)
	}
	return ft
}

// Generic hands the token to an arbitrary converter. A converter returning
// an absent value for present input is an invalid-value error.
func Generic(c Converter, n Nullability) FieldType {
	return FieldType{kind: typeGeneric, null: n, convert: c}
}

// EnumOf decodes tokens into canonical cases of T, consulting synonyms
// for alternate spellings.
func EnumOf[T ~string](n Nullability, cases []T, synonyms map[string]T) FieldType {
	return Generic(domain.NewEnumSet(cases, synonyms).Convert, n)
}

// Untrimmed keeps surrounding whitespace in the decoded string. Nullability
// is still judged on the trimmed content.
func (ft FieldType) Untrimmed() FieldType {
	ft.noTrim = true
	return ft
}

// Strings returns n blank-nullable string descriptors, with the first one
// marking the record type when tagged is set.
func Strings(n int, tagged bool) []FieldType {
	types := make([]FieldType, n)
	for i := range types {
		types[i] = String(Blank)
	}
	if tagged && n > 0 {
		types[0] = RecordType()
	}
	return types
}
