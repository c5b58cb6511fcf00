package decode

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/nasr-etl/internal/domain"
)

// Transform converts the raw spans of one line into a Row, using the
// parallel descriptor list. The first failing field fails the whole line.
func Transform(raw []string, types []FieldType) (domain.Row, error) {
	if len(raw) != len(types) {
		return domain.Row{}, fmt.Errorf("%d raw fields but %d field types", len(raw), len(types))
	}

	values := make([]domain.Value, len(raw))
	for i := range raw {
		v, err := transformField(i, raw[i], types[i])
		if err != nil {
			return domain.Row{}, err
		}
		values[i] = v
	}
	return domain.NewRow(values), nil
}

func transformField(index int, raw string, ft FieldType) (domain.Value, error) {
	switch ft.kind {
	case typeIgnored:
		return domain.Value{}, nil
	case typeFixedArray:
		return fixedArray(index, raw, ft)
	case typeDelimitedArray:
		return delimitedArray(index, raw, ft)
	}

	trimmed := strings.TrimSpace(raw)
	absent, err := ft.null.absent(index, trimmed)
	if err != nil || absent {
		return domain.Value{}, err
	}
	return convert(index, raw, trimmed, ft)
}

// absent applies the nullability policy to trimmed content. Sentinels are
// checked before emptiness so a sentinel never reaches conversion.
func (n Nullability) absent(index int, trimmed string) (bool, error) {
	switch n.kind {
	case nullSentinel:
		return n.isSentinel(trimmed), nil
	case nullBlank, nullCompact:
		return trimmed == "", nil
	default:
		if trimmed == "" {
			return false, domain.NewFieldError(index, domain.ErrRequiredFieldMissing, "", nil)
		}
		return false, nil
	}
}

func convert(index int, raw, s string, ft FieldType) (domain.Value, error) {
	switch ft.kind {
	case typeRecordType:
		return domain.StringValue(s), nil
	case typeString:
		if ft.noTrim {
			return domain.StringValue(raw), nil
		}
		return domain.StringValue(s), nil
	case typeInt:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidNumber, s, nil)
		}
		return domain.IntValue(v), nil
	case typeUint:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidNumber, s, nil)
		}
		return domain.UintValue(v), nil
	case typeFloat:
		v, err := domain.ParseDecimal(s)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidNumber, s, nil)
		}
		return domain.FloatValue(v), nil
	case typeGeodesic:
		v, err := domain.ParseGeodesic(s)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidGeodesic, s, nil)
		}
		return domain.FloatValue(v), nil
	case typeFrequency:
		v, err := domain.ParseFrequency(s)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidFrequency, s, nil)
		}
		return domain.UintValue(v), nil
	case typeBool:
		return domain.BoolValue(s == ft.trueToken), nil
	case typeDateTime:
		t, err := time.ParseInLocation(ft.layout, s, time.UTC)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidDate, s, nil)
		}
		return domain.TimeValue(t), nil
	case typeDate:
		d, err := ft.date.Parse(s)
		if err != nil {
			return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidDate, s, nil)
		}
		return domain.DateValue(d), nil
	case typeGeneric:
		return applyConverter(index, s, ft.convert)
	default:
		return domain.Value{}, fmt.Errorf("field %d: unsupported field type %d", index, ft.kind)
	}
}

func applyConverter(index int, s string, c Converter) (domain.Value, error) {
	if c == nil {
		return domain.StringValue(s), nil
	}
	v, err := c(s)
	if err != nil {
		return domain.Value{}, domain.NewFieldError(index, domain.ErrConversion, s, err)
	}
	if v.IsAbsent() {
		return domain.Value{}, domain.NewFieldError(index, domain.ErrInvalidValue, s, nil)
	}
	return v, nil
}

func (ft FieldType) isEmptyPlaceholder(trimmed string) bool {
	for _, tok := range ft.empties {
		if trimmed == strings.TrimSpace(tok) {
			return true
		}
	}
	return false
}

func fixedArray(index int, raw string, ft FieldType) (domain.Value, error) {
	if ft.width <= 0 {
		return domain.Value{}, fmt.Errorf("field %d: fixed array width %d", index, ft.width)
	}
	if ft.isEmptyPlaceholder(strings.TrimSpace(raw)) {
		return domain.ListValue([]domain.Value{}), nil
	}

	chunks := make([]string, 0, (len(raw)+ft.width-1)/ft.width)
	for start := 0; start < len(raw); start += ft.width {
		end := min(start+ft.width, len(raw))
		chunks = append(chunks, raw[start:end])
	}
	return arrayElements(index, chunks, ft)
}

func delimitedArray(index int, raw string, ft FieldType) (domain.Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || ft.isEmptyPlaceholder(trimmed) {
		return domain.ListValue([]domain.Value{}), nil
	}
	return arrayElements(index, strings.Split(trimmed, ft.delimiter), ft)
}

func arrayElements(index int, chunks []string, ft FieldType) (domain.Value, error) {
	elems := make([]domain.Value, 0, len(chunks))
	for _, chunk := range chunks {
		s := strings.TrimSpace(chunk)
		absent, err := ft.null.absent(index, s)
		if err != nil {
			return domain.Value{}, err
		}
		if absent {
			if ft.null.kind != nullCompact {
				elems = append(elems, domain.Value{})
			}
			continue
		}
		v, err := applyConverter(index, s, ft.convert)
		if err != nil {
			return domain.Value{}, err
		}
		elems = append(elems, v)
	}
	return domain.ListValue(elems), nil
}
