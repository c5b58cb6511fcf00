package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateComponents is a calendar date that may be partial. A zero Month or Day
// means the component was not published.
type DateComponents struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month,omitempty"`
	Day   int        `json:"day,omitempty"`
}

func (d DateComponents) String() string {
	switch {
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
}

// Time returns the date at midnight UTC. Missing components default to 1.
func (d DateComponents) Time() time.Time {
	month, day := d.Month, d.Day
	if month == 0 {
		month = time.January
	}
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateFormat selects one of the textual date layouts found in the data.
type DateFormat uint8

const (
	// DateMonthDayYear is "MM/DD/YYYY".
	DateMonthDayYear DateFormat = iota
	// DateMonthYear is "MM/YYYY".
	DateMonthYear
	// DateYearMonthDay is "YYYYMMDD".
	DateYearMonthDay
	// DateDayMonthYear is "DD MMM YYYY", e.g. "21 MAR 2024".
	DateDayMonthYear
	// DateYear is "YYYY".
	DateYear
)

func (f DateFormat) String() string {
	switch f {
	case DateMonthDayYear:
		return "MM/DD/YYYY"
	case DateMonthYear:
		return "MM/YYYY"
	case DateYearMonthDay:
		return "YYYYMMDD"
	case DateDayMonthYear:
		return "DD MMM YYYY"
	case DateYear:
		return "YYYY"
	default:
		return fmt.Sprintf("DateFormat(%d)", uint8(f))
	}
}

var monthAbbrev = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// Parse decodes token according to the format.
func (f DateFormat) Parse(token string) (DateComponents, error) {
	token = strings.TrimSpace(token)
	bad := func() (DateComponents, error) {
		return DateComponents{}, fmt.Errorf("%w: %q (want %s)", ErrInvalidDate, token, f)
	}

	var d DateComponents
	var parts []string
	switch f {
	case DateMonthDayYear:
		parts = strings.Split(token, "/")
		if len(parts) != 3 || len(parts[2]) != 4 {
			return bad()
		}
		m, okM := atoiN(parts[0], 2)
		day, okD := atoiN(parts[1], 2)
		y, okY := atoiN(parts[2], 4)
		if !okM || !okD || !okY {
			return bad()
		}
		d = DateComponents{Year: y, Month: time.Month(m), Day: day}
	case DateMonthYear:
		parts = strings.Split(token, "/")
		if len(parts) != 2 || len(parts[1]) != 4 {
			return bad()
		}
		m, okM := atoiN(parts[0], 2)
		y, okY := atoiN(parts[1], 4)
		if !okM || !okY {
			return bad()
		}
		d = DateComponents{Year: y, Month: time.Month(m)}
	case DateYearMonthDay:
		if len(token) != 8 {
			return bad()
		}
		y, okY := atoiN(token[:4], 4)
		m, okM := atoiN(token[4:6], 2)
		day, okD := atoiN(token[6:], 2)
		if !okM || !okD || !okY {
			return bad()
		}
		d = DateComponents{Year: y, Month: time.Month(m), Day: day}
	case DateDayMonthYear:
		parts = strings.Fields(token)
		if len(parts) != 3 || len(parts[2]) != 4 {
			return bad()
		}
		day, okD := atoiN(parts[0], 2)
		m, okM := monthAbbrev[strings.ToUpper(parts[1])]
		y, okY := atoiN(parts[2], 4)
		if !okM || !okD || !okY {
			return bad()
		}
		d = DateComponents{Year: y, Month: m, Day: day}
	case DateYear:
		y, ok := atoiN(token, 4)
		if !ok || len(token) != 4 {
			return bad()
		}
		d = DateComponents{Year: y}
	default:
		return bad()
	}

	if (f != DateYear && d.Month == 0) || !d.valid() {
		return bad()
	}
	return d, nil
}

func (d DateComponents) valid() bool {
	if d.Month == 0 {
		return d.Day == 0
	}
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	if d.Day == 0 {
		return true
	}
	// time.Date normalises overflow, so a round trip detects 02/30 and friends.
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == d.Day && t.Month() == d.Month
}

// atoiN parses a non-negative decimal of at most n digits.
func atoiN(s string, n int) (int, bool) {
	if s == "" || len(s) > n {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
