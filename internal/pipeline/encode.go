package pipeline

import (
	"fmt"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/domain"
	"github.com/couchcryptid/nasr-etl/internal/layout"
)

// Layout files tag record-type indicator columns NONE.
const noneTag = "NONE"

// Encode turns a decoded record into its sink message. Columns without a
// published identifier, columns tagged NONE and record-type markers are left
// out; the variant is carried in record_type instead. The message key is the
// family plus the database locator when the variant has one, so every line
// of one logical record lands on the same partition.
//
// A row that cannot be serialized returns an error wrapping
// domain.ErrUnencodable.
func Encode(rec decode.Record) (domain.OutputEvent, error) {
	fields := make(map[string]domain.Value, rec.Row.Len())
	for i, f := range rec.Variant.Table.Fields {
		if f.ID.Kind == layout.IdentNone || f.ID.Tag == noneTag || rec.Variant.Types[i].IsRecordType() {
			continue
		}
		fields[f.ID.String()] = rec.Row.Value(i)
	}

	out, err := domain.SerializeRowEvent(domain.RowEvent{
		ID:          fmt.Sprintf("%s:%d", rec.Family, rec.Line),
		Family:      rec.Family,
		RecordType:  rec.Variant.Name,
		Line:        rec.Line,
		Fields:      fields,
		ProcessedAt: domain.Now(),
	})
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("%w: %w", domain.ErrUnencodable, err)
	}

	if i, ok := rec.Variant.Table.LocatorIndex(); ok {
		if loc, present, err := rec.Row.OptString(i); err == nil && present {
			out.Key = []byte(rec.Family + ":" + loc)
		}
	}
	return out, nil
}
