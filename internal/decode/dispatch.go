package decode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/nasr-etl/internal/domain"
	"github.com/couchcryptid/nasr-etl/internal/layout"
)

// DefaultTagWidth is the discriminator width used when none is given.
const DefaultTagWidth = 3

// Variant pairs one field table with its parallel field descriptors.
type Variant struct {
	Name  string
	Table layout.Table
	Types []FieldType
}

// NewVariant checks that every table field has a descriptor.
func NewVariant(name string, table layout.Table, types []FieldType) (*Variant, error) {
	if len(types) != len(table.Fields) {
		return nil, fmt.Errorf("variant %s: %d field types for %d layout fields", name, len(types), len(table.Fields))
	}
	return &Variant{Name: name, Table: table, Types: types}, nil
}

// Dispatcher selects the variant that applies to a physical line.
type Dispatcher interface {
	Resolve(line []byte) (*Variant, error)
}

// TaggedDispatcher reads a fixed-width discriminator from the start of each
// line and looks it up in a closed set of variants keyed by Variant.Name.
type TaggedDispatcher struct {
	width    int
	variants map[string]*Variant
}

// NewTaggedDispatcher builds a tagged dispatcher. A width of zero selects
// DefaultTagWidth.
func NewTaggedDispatcher(width int, variants ...*Variant) (*TaggedDispatcher, error) {
	if width <= 0 {
		width = DefaultTagWidth
	}
	d := &TaggedDispatcher{width: width, variants: make(map[string]*Variant, len(variants))}
	for _, v := range variants {
		if len(v.Name) > width {
			return nil, fmt.Errorf("tag %q longer than discriminator width %d", v.Name, width)
		}
		if _, dup := d.variants[v.Name]; dup {
			return nil, fmt.Errorf("duplicate tag %q", v.Name)
		}
		d.variants[v.Name] = v
	}
	return d, nil
}

// Resolve looks up the right-trimmed tag at the start of line.
func (d *TaggedDispatcher) Resolve(line []byte) (*Variant, error) {
	n := min(d.width, len(line))
	tag, err := decodeText(line[:n])
	if err != nil {
		return nil, &domain.RecordError{Err: err}
	}
	tag = strings.TrimRight(tag, " ")
	v, ok := d.variants[tag]
	if !ok {
		return nil, &domain.RecordError{Tag: tag, Err: domain.ErrUnknownRecordType}
	}
	return v, nil
}

// Rule picks the variant for a line in families without a discriminator.
type Rule func(line []byte) (*Variant, error)

// UntaggedDispatcher applies a caller-supplied Rule to every line.
type UntaggedDispatcher struct {
	rule Rule
}

// NewUntaggedDispatcher builds a dispatcher around rule.
func NewUntaggedDispatcher(rule Rule) *UntaggedDispatcher {
	return &UntaggedDispatcher{rule: rule}
}

// Resolve applies the rule. A rule returning no variant and no error is an
// unknown record type.
func (d *UntaggedDispatcher) Resolve(line []byte) (*Variant, error) {
	v, err := d.rule(line)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &domain.RecordError{Err: domain.ErrUnknownRecordType}
	}
	return v, nil
}

// Single uses the same variant for every line.
func Single(v *Variant) Rule {
	return func([]byte) (*Variant, error) { return v, nil }
}

// ByLineLength selects the variant by physical line length.
func ByLineLength(variants map[int]*Variant) Rule {
	return func(line []byte) (*Variant, error) {
		if v, ok := variants[len(line)]; ok {
			return v, nil
		}
		return nil, &domain.RecordError{Tag: "length " + strconv.Itoa(len(line)), Err: domain.ErrUnknownRecordType}
	}
}
