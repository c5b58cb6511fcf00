package families

import (
	"fmt"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/domain"
	"github.com/couchcryptid/nasr-etl/internal/layout"
)

const (
	awosFamily  = "AWOS"
	awosTagSize = 5

	AWOSBase    = "AWOS1"
	AWOSRemarks = "AWOS2"
)

// SensorType is the kind of automated weather sensor at a station.
type SensorType string

const (
	SensorASOS       SensorType = "ASOS"
	SensorASOSA      SensorType = "ASOS-A"
	SensorASOSB      SensorType = "ASOS-B"
	SensorASOSC      SensorType = "ASOS-C"
	SensorASOSD      SensorType = "ASOS-D"
	SensorAWOS1      SensorType = "AWOS-1"
	SensorAWOS2      SensorType = "AWOS-2"
	SensorAWOS3      SensorType = "AWOS-3"
	SensorAWOS3P     SensorType = "AWOS-3P"
	SensorAWOS3PT    SensorType = "AWOS-3PT"
	SensorAWOS3T     SensorType = "AWOS-3T"
	SensorAWOS4      SensorType = "AWOS-4"
	SensorAWOSA      SensorType = "AWOS-A"
	SensorAWOSAV     SensorType = "AWOS-AV"
	SensorAWSS       SensorType = "AWSS"
	SensorSAWS       SensorType = "SAWS"
	SensorWEF        SensorType = "WEF"
	SensorNonFederal SensorType = "NON-FED"
)

var sensorTypes = []SensorType{
	SensorASOS, SensorASOSA, SensorASOSB, SensorASOSC, SensorASOSD,
	SensorAWOS1, SensorAWOS2, SensorAWOS3, SensorAWOS3P, SensorAWOS3PT,
	SensorAWOS3T, SensorAWOS4, SensorAWOSA, SensorAWOSAV, SensorAWSS,
	SensorSAWS, SensorWEF, SensorNonFederal,
}

// Spellings seen in older cycles.
var sensorSynonyms = map[string]SensorType{
	"AWOS-3P/T": SensorAWOS3PT,
	"AWOS3":     SensorAWOS3,
	"AWOS-III":  SensorAWOS3,
	"ASOS A":    SensorASOSA,
	"WEF-SAWS":  SensorWEF,
}

// Columns of the AWOS1 base record.
const (
	awosIdent = iota + 1
	awosSensor
	awosCommissioned
	awosCommissionDate
	awosNavaid
	awosLatitude
	awosLongitude
	awosElevation
	awosFrequency
	awosSecondFrequency
	awosPhone
	awosSiteNumber
	awosEffectiveDate
)

func awosBaseTypes() []decode.FieldType {
	return []decode.FieldType{
		decode.RecordType(),
		decode.String(decode.NotNull),
		decode.EnumOf(decode.NotNull, sensorTypes, sensorSynonyms),
		decode.Bool("Y", decode.Blank),
		decode.Date(domain.DateMonthDayYear, decode.Blank),
		decode.Bool("Y", decode.Blank),
		decode.Geodesic(decode.Blank),
		decode.Geodesic(decode.Blank),
		decode.Float(decode.Blank),
		decode.Frequency(decode.Blank),
		decode.Frequency(decode.Blank),
		decode.String(decode.Blank),
		decode.String(decode.Blank),
		decode.Date(domain.DateMonthDayYear, decode.Blank),
		decode.Ignored(),
	}
}

func awosRemarkTypes() []decode.FieldType {
	return []decode.FieldType{
		decode.RecordType(),
		decode.String(decode.NotNull),
		decode.EnumOf(decode.NotNull, sensorTypes, sensorSynonyms),
		decode.String(decode.Blank).Untrimmed(),
	}
}

func buildAWOS(l *layout.Layout) (decode.Dispatcher, error) {
	// The base group is the one publishing A2, the remarks group A13.
	base, _, err := l.TableWithTag("A2")
	if err != nil {
		return nil, err
	}
	remarks, _, err := l.TableWithTag("A13")
	if err != nil {
		return nil, err
	}

	bv, err := decode.NewVariant(AWOSBase, base, awosBaseTypes())
	if err != nil {
		return nil, err
	}
	rv, err := decode.NewVariant(AWOSRemarks, remarks, awosRemarkTypes())
	if err != nil {
		return nil, err
	}
	return decode.NewTaggedDispatcher(awosTagSize, bv, rv)
}

// Station is the typed view of an AWOS1 base record. Latitude and Longitude
// are signed arc-seconds.
type Station struct {
	Ident           string
	Sensor          SensorType
	Commissioned    bool
	CommissionDate  *domain.DateComponents
	NavaidColocated bool
	Latitude        float64
	Longitude       float64
	HasPosition     bool
	ElevationFeet   float64
	FrequencyKHz    uint64
	SecondFreqKHz   uint64
	Phone           string
	SiteNumber      string
	EffectiveDate   *domain.DateComponents
}

// StationFromRow reads an AWOS1 row.
func StationFromRow(row domain.Row) (Station, error) {
	tag, err := row.String(0)
	if err != nil {
		return Station{}, err
	}
	if tag != AWOSBase {
		return Station{}, fmt.Errorf("%w: %q is not a base record", domain.ErrUnknownRecordType, tag)
	}

	var s Station
	if s.Ident, err = row.String(awosIdent); err != nil {
		return Station{}, err
	}
	if s.Sensor, err = domain.Enum[SensorType](row, awosSensor); err != nil {
		return Station{}, err
	}
	if s.Commissioned, _, err = row.OptBool(awosCommissioned); err != nil {
		return Station{}, err
	}
	if s.CommissionDate, err = optDate(row, awosCommissionDate); err != nil {
		return Station{}, err
	}
	if s.NavaidColocated, _, err = row.OptBool(awosNavaid); err != nil {
		return Station{}, err
	}

	lat, hasLat, err := row.OptFloat(awosLatitude)
	if err != nil {
		return Station{}, err
	}
	lon, hasLon, err := row.OptFloat(awosLongitude)
	if err != nil {
		return Station{}, err
	}
	s.Latitude, s.Longitude, s.HasPosition = lat, lon, hasLat && hasLon

	if s.ElevationFeet, _, err = row.OptFloat(awosElevation); err != nil {
		return Station{}, err
	}
	if s.FrequencyKHz, _, err = row.OptUint(awosFrequency); err != nil {
		return Station{}, err
	}
	if s.SecondFreqKHz, _, err = row.OptUint(awosSecondFrequency); err != nil {
		return Station{}, err
	}
	if s.Phone, _, err = row.OptString(awosPhone); err != nil {
		return Station{}, err
	}
	if s.SiteNumber, _, err = row.OptString(awosSiteNumber); err != nil {
		return Station{}, err
	}
	if s.EffectiveDate, err = optDate(row, awosEffectiveDate); err != nil {
		return Station{}, err
	}
	return s, nil
}

func optDate(row domain.Row, i int) (*domain.DateComponents, error) {
	d, ok, err := row.OptDate(i)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}
