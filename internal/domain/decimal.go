package domain

import (
	"fmt"
	"math"
	"strconv"
)

// ParseDecimal parses plain decimal text: an optional leading sign, digits
// and at most one decimal point. Exponents, hex floats, NaN and infinities
// are rejected, as is anything that overflows to an infinity.
func ParseDecimal(token string) (float64, error) {
	digits, point := 0, false
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !point:
			point = true
		case (c == '+' || c == '-') && i == 0:
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, token)
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, token)
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, token)
	}
	return f, nil
}
