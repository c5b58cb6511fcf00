// Package domain models values decoded from FAA National Airspace System
// Resource (NASR) fixed-width distribution files.
//
// # Data Source
//
// NASR subscriptions ship one text file per record family (APT.txt, AWOS.txt,
// ARB.txt, ...) together with a layout-description file per family
// (APT_rf.txt, ...). Column offsets are not fixed in this program; they come
// from the layout files, which change between releases.
//
// # NASR Data Conventions
//
// Coordinates:
//
//	"DDD-MM-SS.SSSSH"  →  e.g. "033-35-47.260N"
//	Decoded to signed arc-seconds: degrees*3600 + minutes*60 + seconds,
//	negative for S and W hemispheres. See [ParseGeodesic].
//
// Frequencies:
//
//	"MHz.kHz" → e.g. "122.2" = 122200 kHz. The fractional part is padded
//	on the right to three digits. See [ParseFrequency].
//
// Dates:
//
//	Several layouts appear ("MM/DD/YYYY", "MM/YYYY", "YYYYMMDD",
//	"DD MMM YYYY", "YYYY"). Partial dates keep missing components at zero.
//	See [DateFormat].
//
// Flags:
//
//	Single-letter flags ("Y", "X") mean true. Any other token, including
//	malformed ones, reads as false. This leniency matches how the source
//	data is published and is intentional.
//
// # Rows
//
// A decoded line is a [Row]: one optional [Value] per layout field. Record
// assembly code reads rows only through the Row accessors, which return
// [ErrRequiredFieldMissing] for absent values and [ErrTypeMismatch] for a
// wrong dynamic type.
package domain
