package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseGeodesic converts a degrees-minutes-seconds-hemisphere token such as
// "033-35-47.260N" into signed arc-seconds. South and west are negative.
func ParseGeodesic(token string) (float64, error) {
	token = strings.TrimSpace(token)
	if len(token) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGeodesic, token)
	}

	var sign float64
	switch token[len(token)-1] {
	case 'N', 'E':
		sign = 1
	case 'S', 'W':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: %q: bad hemisphere", ErrInvalidGeodesic, token)
	}

	parts := strings.Split(token[:len(token)-1], "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q: want DDD-MM-SS.SSSH", ErrInvalidGeodesic, token)
	}

	deg, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: degrees", ErrInvalidGeodesic, token)
	}
	mins, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || mins >= 60 {
		return 0, fmt.Errorf("%w: %q: minutes", ErrInvalidGeodesic, token)
	}
	secs, err := ParseDecimal(parts[2])
	if err != nil || parts[2][0] == '+' || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("%w: %q: seconds", ErrInvalidGeodesic, token)
	}
	if deg > 180 {
		return 0, fmt.Errorf("%w: %q: degrees out of range", ErrInvalidGeodesic, token)
	}

	return sign * (float64(deg)*3600 + float64(mins)*60 + secs), nil
}
