package families

import (
	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/layout"
)

const arbFamily = "ARB"

// AltitudeStructure is the airspace stratum an ARTCC boundary applies to.
type AltitudeStructure string

const (
	AltitudeHigh    AltitudeStructure = "HIGH"
	AltitudeLow     AltitudeStructure = "LOW"
	AltitudeFIROnly AltitudeStructure = "FIR ONLY"
	AltitudeUTA     AltitudeStructure = "UTA"
	AltitudeCTA     AltitudeStructure = "CTA"
	AltitudeCTAFIR  AltitudeStructure = "CTA/FIR"
	AltitudeBDRY    AltitudeStructure = "BDRY"
)

var altitudeStructures = []AltitudeStructure{
	AltitudeHigh, AltitudeLow, AltitudeFIROnly, AltitudeUTA,
	AltitudeCTA, AltitudeCTAFIR, AltitudeBDRY,
}

var altitudeSynonyms = map[string]AltitudeStructure{
	"FIR-ONLY": AltitudeFIROnly,
	"CTA-FIR":  AltitudeCTAFIR,
}

func arbTypes() []decode.FieldType {
	return []decode.FieldType{
		decode.String(decode.NotNull),
		decode.String(decode.Blank),
		decode.EnumOf(decode.Blank, altitudeStructures, altitudeSynonyms),
		decode.Geodesic(decode.NotNull),
		decode.Geodesic(decode.NotNull),
		decode.String(decode.Blank).Untrimmed(),
		decode.Uint(decode.Blank),
		decode.Bool("X", decode.Blank),
		decode.Ignored(),
	}
}

// ARB lines carry no record type; every line is a boundary point.
func buildARB(l *layout.Layout) (decode.Dispatcher, error) {
	t, err := l.Table(0)
	if err != nil {
		return nil, err
	}
	v, err := decode.NewVariant(arbFamily, t, arbTypes())
	if err != nil {
		return nil, err
	}
	return decode.NewUntaggedDispatcher(decode.Single(v)), nil
}
