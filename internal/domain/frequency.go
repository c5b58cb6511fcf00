package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFrequency converts a "MHz.kHz" token into kilohertz. The fractional
// part is right-padded to three digits, so "122.2" is 122200.
func ParseFrequency(token string) (uint64, error) {
	token = strings.TrimSpace(token)
	whole, frac, _ := strings.Cut(token, ".")
	if whole == "" || len(frac) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, token)
	}

	mhz, err := strconv.ParseUint(whole, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, token)
	}

	var khz uint64
	if frac != "" {
		khz, err = strconv.ParseUint(frac+strings.Repeat("0", 3-len(frac)), 10, 16)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, token)
		}
	}

	return mhz*1000 + khz, nil
}
