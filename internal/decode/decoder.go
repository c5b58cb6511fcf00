// Package decode turns fixed-width NASR lines into typed rows: it picks the
// record variant for each line, slices the line by the variant's field
// table and converts each span with the variant's field descriptors.
//
// Nothing in this package logs; every failure is returned to the caller.
package decode

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/nasr-etl/internal/domain"
)

// maxLineBytes bounds a single physical line.
const maxLineBytes = 1 << 20

// Record is one successfully decoded line.
type Record struct {
	Family  string
	Line    int
	Variant *Variant
	Row     domain.Row
}

// ErrorHandler decides what happens after a line fails. Returning nil skips
// the line; returning an error aborts the family's stream with that error.
type ErrorHandler func(err *domain.LineError) error

// Decoder decodes the line stream of one record family, strictly in order.
type Decoder struct {
	family     string
	dispatcher Dispatcher
	onError    ErrorHandler
	onProgress func(lines int)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithErrorHandler installs a per-line error handler. Without one the first
// failing line aborts decoding.
func WithErrorHandler(h ErrorHandler) Option {
	return func(d *Decoder) { d.onError = h }
}

// WithProgress is called after every consumed line, successful or not, with
// the running line count.
func WithProgress(fn func(lines int)) Option {
	return func(d *Decoder) { d.onProgress = fn }
}

// NewDecoder creates a Decoder for family using dispatcher.
func NewDecoder(family string, dispatcher Dispatcher, opts ...Option) *Decoder {
	d := &Decoder{
		family:     family,
		dispatcher: dispatcher,
		onError:    func(err *domain.LineError) error { return err },
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// DecodeLine decodes a single physical line. lineNo is 1-based and only used
// for error context.
func (d *Decoder) DecodeLine(lineNo int, line []byte) (Record, error) {
	wrap := func(err error) error {
		return &domain.LineError{Family: d.family, Line: lineNo, Err: err}
	}

	v, err := d.dispatcher.Resolve(line)
	if err != nil {
		return Record{}, wrap(err)
	}
	raw, err := Extract(line, v.Table)
	if err != nil {
		return Record{}, wrap(err)
	}
	row, err := Transform(raw, v.Types)
	if err != nil {
		return Record{}, wrap(err)
	}
	return Record{Family: d.family, Line: lineNo, Variant: v, Row: row}, nil
}

// Decode reads r line by line and passes each decoded record to emit. An
// error from emit stops decoding and is returned as is. Blank lines are
// counted but otherwise skipped.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, emit func(Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := bytes.TrimRight(scanner.Bytes(), "\r")

		var err error
		if len(line) > 0 {
			err = d.handle(lineNo, line, emit)
		}
		if d.onProgress != nil {
			d.onProgress(lineNo)
		}
		if err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s line %d: %w", d.family, lineNo+1, err)
	}
	return nil
}

func (d *Decoder) handle(lineNo int, line []byte, emit func(Record) error) error {
	rec, err := d.DecodeLine(lineNo, line)
	if err != nil {
		var le *domain.LineError
		if !errors.As(err, &le) {
			le = &domain.LineError{Family: d.family, Line: lineNo, Err: err}
		}
		return d.onError(le)
	}
	return emit(rec)
}
