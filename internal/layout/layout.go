// Package layout loads NASR layout-description files ("<family>_rf.txt")
// into field tables.
//
// A layout file is a sequence of groups. A line made only of asterisks opens
// a group; each following field-definition line adds one field to it:
//
//	L AN 0004 00001  NONE    RECORD TYPE INDICATOR.
//	L AN 0005 00005  DLID    LOCATION IDENTIFIER
//	R N  0007 00010  E21     ELEVATION
//
// The columns are side (L/R), type (N/AN), length, 1-based start location
// and an optional column identifier. Anything after the identifier is
// description text and is ignored, as are lines that do not look like field
// definitions at all.
package layout

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/nasr-etl/internal/domain"
)

// IdentifierKind classifies a field's published column identifier.
type IdentifierKind uint8

const (
	IdentNone IdentifierKind = iota
	IdentDatabaseLocator
	IdentColumn
)

// Identifier names a field by its published column number.
type Identifier struct {
	Kind IdentifierKind
	Tag  string
}

// String returns the tag as published, "DLID" for the locator, or "" for
// no identifier.
func (id Identifier) String() string {
	switch id.Kind {
	case IdentDatabaseLocator:
		return "DLID"
	case IdentColumn:
		return id.Tag
	default:
		return ""
	}
}

func parseIdentifier(token string) Identifier {
	switch token {
	case "", "N/A":
		return Identifier{Kind: IdentNone}
	case "DLID":
		return Identifier{Kind: IdentDatabaseLocator}
	default:
		return Identifier{Kind: IdentColumn, Tag: token}
	}
}

// Field is one column of a table. Start and End are a half-open byte range.
type Field struct {
	ID    Identifier
	Start int
	End   int
}

// Len returns the field width in bytes.
func (f Field) Len() int { return f.End - f.Start }

// Table is the ordered field list for one record variant.
type Table struct {
	Fields []Field
}

// FieldIndex returns the position of the field published under tag.
func (t Table) FieldIndex(tag string) (int, bool) {
	for i, f := range t.Fields {
		if f.ID.Kind == IdentColumn && f.ID.Tag == tag {
			return i, true
		}
	}
	return -1, false
}

// LocatorIndex returns the position of the database-locator field.
func (t Table) LocatorIndex() (int, bool) {
	for i, f := range t.Fields {
		if f.ID.Kind == IdentDatabaseLocator {
			return i, true
		}
	}
	return -1, false
}

// LineLength returns the furthest byte offset any field reaches.
func (t Table) LineLength() int {
	n := 0
	for _, f := range t.Fields {
		if f.End > n {
			n = f.End
		}
	}
	return n
}

// Layout is the immutable set of tables loaded for one record family, in
// file order. It is safe for concurrent readers.
type Layout struct {
	Family string
	Tables []Table
	// RecordLength is the physical line length declared in the file header
	// ("RECORD LENGTH: 120"), or zero when the header has none.
	RecordLength int
}

// Table returns the table at a fixed ordinal.
func (l *Layout) Table(ordinal int) (Table, error) {
	if ordinal < 0 || ordinal >= len(l.Tables) {
		return Table{}, fmt.Errorf("layout %s: no group %d (have %d)", l.Family, ordinal, len(l.Tables))
	}
	return l.Tables[ordinal], nil
}

// TableWithTag returns the first table containing a field published under tag.
func (l *Layout) TableWithTag(tag string) (Table, int, error) {
	for i, t := range l.Tables {
		if _, ok := t.FieldIndex(tag); ok {
			return t, i, nil
		}
	}
	return Table{}, -1, fmt.Errorf("layout %s: no group has column %q", l.Family, tag)
}

// Validate checks that no field extends past the family's physical line length.
func (l *Layout) Validate(lineLength int) error {
	for gi, t := range l.Tables {
		for fi, f := range t.Fields {
			if f.End > lineLength {
				return fmt.Errorf("layout %s: group %d field %d ends at %d, beyond line length %d: %w",
					l.Family, gi, fi, f.End, lineLength, domain.ErrFieldPastLineEnd)
			}
		}
	}
	return nil
}

// ValidateDeclared checks the tables against the declared RecordLength.
// Layouts without a declared length pass.
func (l *Layout) ValidateDeclared() error {
	if l.RecordLength == 0 {
		return nil
	}
	return l.Validate(l.RecordLength)
}

// LineLength returns the longest line length required by any table.
func (l *Layout) LineLength() int {
	n := 0
	for _, t := range l.Tables {
		if tl := t.LineLength(); tl > n {
			n = tl
		}
	}
	return n
}

var (
	// fieldLineRe matches "<L|R> <N|AN> <length> <location> [identifier] ...".
	// Length and location are captured loosely so that a malformed number is
	// reported instead of the line being skipped.
	fieldLineRe = regexp.MustCompile(`^\s*([LR])\s+(AN|N)\s+(\S+)\s+(\S+)(?:\s+(\S+))?`)

	groupMarkerRe = regexp.MustCompile(`^\*+$`)

	recordLengthRe = regexp.MustCompile(`RECORD LENGTH:\s*(\d+)`)
)

// Load reads a layout-description stream for family. Any malformed field
// line aborts loading; no partial layout is returned.
func Load(family string, r io.Reader) (*Layout, error) {
	l := &Layout{Family: family}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)

		if groupMarkerRe.MatchString(trimmed) {
			if len(l.Tables) == 0 || len(l.Tables[len(l.Tables)-1].Fields) > 0 {
				l.Tables = append(l.Tables, Table{})
			}
			continue
		}

		m := fieldLineRe.FindStringSubmatch(text)
		if m == nil {
			if h := recordLengthRe.FindStringSubmatch(text); h != nil && l.RecordLength == 0 {
				n, err := strconv.Atoi(h[1])
				if err != nil || n == 0 {
					return nil, &domain.LayoutError{Family: family, Line: lineNo, Text: text,
						Err: fmt.Errorf("%w: record length %q", domain.ErrMalformedLayout, h[1])}
				}
				l.RecordLength = n
			}
			continue
		}

		layoutErr := func(err error) error {
			return &domain.LayoutError{Family: family, Line: lineNo, Text: text, Err: err}
		}

		length, err := strconv.ParseUint(m[3], 10, 31)
		if err != nil {
			return nil, layoutErr(fmt.Errorf("%w: length %q", domain.ErrMalformedLayout, m[3]))
		}
		location, err := strconv.ParseUint(m[4], 10, 31)
		if err != nil || location == 0 {
			return nil, layoutErr(fmt.Errorf("%w: location %q", domain.ErrMalformedLayout, m[4]))
		}
		if len(l.Tables) == 0 {
			return nil, layoutErr(domain.ErrFieldBeforeGroup)
		}

		start := int(location) - 1
		cur := &l.Tables[len(l.Tables)-1]
		cur.Fields = append(cur.Fields, Field{
			ID:    parseIdentifier(m[5]),
			Start: start,
			End:   start + int(length),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read layout %s: %w", family, err)
	}

	if n := len(l.Tables); n > 0 && len(l.Tables[n-1].Fields) == 0 {
		l.Tables = l.Tables[:n-1]
	}
	return l, nil
}
