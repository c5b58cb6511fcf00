package decode

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/nasr-etl/internal/domain"
	"github.com/couchcryptid/nasr-etl/internal/layout"
)

// Distribution files are Latin-1. Slicing happens on raw bytes before
// decoding so published offsets stay byte-exact.
var latin1 = charmap.ISO8859_1

// decodeText converts single-byte text to a Go string.
func decodeText(b []byte) (string, error) {
	s, err := latin1.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBadData, err)
	}
	return string(s), nil
}

// Extract slices line into one raw span per table field. Fields reaching
// past the end of a short line are clipped; a field starting past the end is
// empty.
func Extract(line []byte, table layout.Table) ([]string, error) {
	raw := make([]string, len(table.Fields))
	for i, f := range table.Fields {
		start := min(f.Start, len(line))
		end := min(f.End, len(line))
		s, err := decodeText(line[start:end])
		if err != nil {
			return nil, domain.NewFieldError(i, domain.ErrBadData, "", err)
		}
		raw[i] = s
	}
	return raw, nil
}
