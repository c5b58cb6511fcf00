package decode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nasr-etl/internal/domain"
)

type surface string

const (
	surfaceAsphalt  surface = "ASPH"
	surfaceConcrete surface = "CONC"
)

func TestTransform_Scalars(t *testing.T) {
	raw := []string{"AWOS1", " -12 ", "0118325", "  1234.5", "39-01-22.5400N", "118.325", "Y", "03/21/2024", "2024-03-21 09:00", "  padded "}
	types := []FieldType{
		RecordType(),
		Int(NotNull),
		Uint(NotNull),
		Float(NotNull),
		Geodesic(NotNull),
		Frequency(NotNull),
		Bool("Y", NotNull),
		Date(domain.DateMonthDayYear, NotNull),
		DateTime("2006-01-02 15:04", NotNull),
		String(NotNull).Untrimmed(),
	}

	row, err := Transform(raw, types)
	require.NoError(t, err)
	require.Equal(t, len(types), row.Len())

	s, err := row.String(0)
	require.NoError(t, err)
	assert.Equal(t, "AWOS1", s)

	i, err := row.Int(1)
	require.NoError(t, err)
	assert.Equal(t, int64(-12), i)

	u, err := row.Uint(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(118325), u)

	f, err := row.Float(3)
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, f, 1e-9)

	lat, err := row.Float(4)
	require.NoError(t, err)
	assert.InDelta(t, 140482.54, lat, 1e-6)

	freq, err := row.Uint(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(118325), freq)

	b, err := row.Bool(6)
	require.NoError(t, err)
	assert.True(t, b)

	d, err := row.Date(7)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-21", d.String())

	ts, err := row.Time(8)
	require.NoError(t, err)
	assert.Equal(t, 9, ts.Hour())

	padded, err := row.String(9)
	require.NoError(t, err)
	assert.Equal(t, "  padded ", padded)
}

func TestTransform_Nullability(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ft      FieldType
		absent  bool
		wantErr error
	}{
		{"blank empty", "    ", String(Blank), true, nil},
		{"blank present", " A ", String(Blank), false, nil},
		{"not null empty", "   ", String(NotNull), false, domain.ErrRequiredFieldMissing},
		{"compact empty", "", Int(Compact), true, nil},
		{"sentinel match", " NONE ", Int(Sentinel("NONE")), true, nil},
		{"sentinel beats conversion", "UNK", Frequency(Sentinel("UNK")), true, nil},
		{"sentinel empty not listed", "   ", String(Sentinel("NONE")), false, nil},
		{"sentinel empty listed", "   ", Int(Sentinel("", "NONE")), true, nil},
		{"untrimmed blank is absent", "    ", String(Blank).Untrimmed(), true, nil},
		{"ignored", "garbage", Ignored(), true, nil},
		{"ignored not null content", "", Ignored(), true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Transform([]string{tt.raw}, []FieldType{tt.ft})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.absent, row.Value(0).IsAbsent())
		})
	}
}

func TestTransform_SentinelEmptyStringKeepsRawBlank(t *testing.T) {
	row, err := Transform([]string{"   "}, []FieldType{String(Sentinel("NONE"))})
	require.NoError(t, err)

	s, err := row.String(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestTransform_ConversionErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ft      FieldType
		wantErr error
	}{
		{"int", "12A", Int(NotNull), domain.ErrInvalidNumber},
		{"uint negative", "-1", Uint(NotNull), domain.ErrInvalidNumber},
		{"float", "1.2.3", Float(Blank), domain.ErrInvalidNumber},
		{"float NaN", "NaN", Float(Blank), domain.ErrInvalidNumber},
		{"float Inf", "Inf", Float(Blank), domain.ErrInvalidNumber},
		{"float infinity", "-infinity", Float(Blank), domain.ErrInvalidNumber},
		{"float hex", "0x1p3", Float(Blank), domain.ErrInvalidNumber},
		{"float exponent", "1e3", Float(Blank), domain.ErrInvalidNumber},
		{"float overflow", "1" + strings.Repeat("0", 400), Float(Blank), domain.ErrInvalidNumber},
		{"geodesic NaN seconds", "033-35-NaNN", Geodesic(NotNull), domain.ErrInvalidGeodesic},
		{"geodesic Inf seconds", "033-35-InfN", Geodesic(NotNull), domain.ErrInvalidGeodesic},
		{"geodesic", "39-61-00.0N", Geodesic(NotNull), domain.ErrInvalidGeodesic},
		{"frequency", "118.3255", Frequency(NotNull), domain.ErrInvalidFrequency},
		{"date", "13/01/2024", Date(domain.DateMonthDayYear, NotNull), domain.ErrInvalidDate},
		{"datetime", "yesterday", DateTime("2006-01-02", NotNull), domain.ErrInvalidDate},
		{"enum", "GRVL", EnumOf(NotNull, []surface{surfaceAsphalt, surfaceConcrete}, nil), domain.ErrUnknownEnumValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform([]string{"X", tt.raw}, []FieldType{RecordType(), tt.ft})
			require.ErrorIs(t, err, tt.wantErr)

			var fe *domain.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, 1, fe.Index)
		})
	}
}

func TestTransform_FirstFailingFieldWins(t *testing.T) {
	_, err := Transform(
		[]string{"", "XX"},
		[]FieldType{String(NotNull), Int(NotNull)},
	)
	require.ErrorIs(t, err, domain.ErrRequiredFieldMissing)
	assert.False(t, errors.Is(err, domain.ErrInvalidNumber))
}

func TestTransform_LengthMismatch(t *testing.T) {
	_, err := Transform([]string{"A", "B"}, []FieldType{String(Blank)})
	require.Error(t, err)
}

// Unexpected tokens decode as false instead of failing the line.
func TestTransform_BoolIsLenient(t *testing.T) {
	for _, raw := range []string{"N", "Q", "y"} {
		row, err := Transform([]string{raw}, []FieldType{Bool("Y", Blank)})
		require.NoError(t, err, raw)
		b, err := row.Bool(0)
		require.NoError(t, err)
		assert.False(t, b, raw)
	}
}

func TestTransform_Enum(t *testing.T) {
	ft := EnumOf(Blank, []surface{surfaceAsphalt, surfaceConcrete}, map[string]surface{"ASPHALT": surfaceAsphalt})

	row, err := Transform([]string{" ASPHALT "}, []FieldType{ft})
	require.NoError(t, err)
	got, err := domain.Enum[surface](row, 0)
	require.NoError(t, err)
	assert.Equal(t, surfaceAsphalt, got)

	row, err = Transform([]string{"   "}, []FieldType{ft})
	require.NoError(t, err)
	assert.True(t, row.Value(0).IsAbsent())
}

func TestTransform_Generic(t *testing.T) {
	upper := func(s string) (domain.Value, error) { return domain.StringValue(strings.ToUpper(s)), nil }
	failing := func(string) (domain.Value, error) { return domain.Value{}, errors.New("boom") }
	absent := func(string) (domain.Value, error) { return domain.Value{}, nil }

	row, err := Transform([]string{" abc "}, []FieldType{Generic(upper, NotNull)})
	require.NoError(t, err)
	s, err := row.String(0)
	require.NoError(t, err)
	assert.Equal(t, "ABC", s)

	_, err = Transform([]string{"abc"}, []FieldType{Generic(failing, NotNull)})
	require.ErrorIs(t, err, domain.ErrConversion)
	assert.Contains(t, err.Error(), "boom")

	_, err = Transform([]string{"abc"}, []FieldType{Generic(absent, NotNull)})
	require.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestTransform_FixedArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ft   FieldType
		want []domain.Value
	}{
		{
			name: "single characters",
			raw:  "ABC",
			ft:   FixedArray(1, Blank),
			want: []domain.Value{domain.StringValue("A"), domain.StringValue("B"), domain.StringValue("C")},
		},
		{
			name: "blank elements kept as absent",
			raw:  "AB    CD",
			ft:   FixedArray(2, Blank),
			want: []domain.Value{domain.StringValue("AB"), {}, {}, domain.StringValue("CD")},
		},
		{
			name: "compact drops absent",
			raw:  "AB    CD",
			ft:   FixedArray(2, Compact),
			want: []domain.Value{domain.StringValue("AB"), domain.StringValue("CD")},
		},
		{
			name: "placeholder means empty",
			raw:  " NONE   ",
			ft:   FixedArray(2, Blank, WithEmptyPlaceholders("NONE")),
			want: []domain.Value{},
		},
		{
			name: "short tail chunk",
			raw:  "12345",
			ft:   FixedArray(2, Blank, WithElement(intElement)),
			want: []domain.Value{domain.IntValue(12), domain.IntValue(34), domain.IntValue(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Transform([]string{tt.raw}, []FieldType{tt.ft})
			require.NoError(t, err)
			list, err := row.List(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, list)
		})
	}
}

func TestTransform_FixedArrayErrors(t *testing.T) {
	_, err := Transform([]string{"AB  "}, []FieldType{FixedArray(2, NotNull)})
	require.ErrorIs(t, err, domain.ErrRequiredFieldMissing)

	_, err = Transform([]string{"1X"}, []FieldType{FixedArray(1, Blank, WithElement(intElement))})
	require.ErrorIs(t, err, domain.ErrConversion)

	_, err = Transform([]string{"AB"}, []FieldType{FixedArray(0, Blank)})
	require.Error(t, err)
}

func TestTransform_DelimitedArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ft   FieldType
		want []domain.Value
	}{
		{
			name: "split",
			raw:  " A,B,C ",
			ft:   DelimitedArray(",", Blank),
			want: []domain.Value{domain.StringValue("A"), domain.StringValue("B"), domain.StringValue("C")},
		},
		{
			name: "empty content",
			raw:  "     ",
			ft:   DelimitedArray(",", NotNull),
			want: []domain.Value{},
		},
		{
			name: "placeholder",
			raw:  "N/A",
			ft:   DelimitedArray(",", Blank, WithEmptyPlaceholders("N/A")),
			want: []domain.Value{},
		},
		{
			name: "compact",
			raw:  "1;;2",
			ft:   DelimitedArray(";", Compact, WithElement(intElement)),
			want: []domain.Value{domain.IntValue(1), domain.IntValue(2)},
		},
		{
			name: "blank element",
			raw:  "1; ;2",
			ft:   DelimitedArray(";", Blank, WithElement(intElement)),
			want: []domain.Value{domain.IntValue(1), {}, domain.IntValue(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Transform([]string{tt.raw}, []FieldType{tt.ft})
			require.NoError(t, err)
			list, err := row.List(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, list)
		})
	}
}

func TestStrings(t *testing.T) {
	types := Strings(3, true)
	require.Len(t, types, 3)

	row, err := Transform([]string{"AWOS1", "  ", " X "}, types)
	require.NoError(t, err)
	s, err := row.String(0)
	require.NoError(t, err)
	assert.Equal(t, "AWOS1", s)
	assert.True(t, row.Value(1).IsAbsent())
	s, err = row.String(2)
	require.NoError(t, err)
	assert.Equal(t, "X", s)
}

func intElement(s string) (domain.Value, error) {
	row, err := Transform([]string{s}, []FieldType{Int(NotNull)})
	if err != nil {
		return domain.Value{}, err
	}
	return row.Value(0), nil
}
