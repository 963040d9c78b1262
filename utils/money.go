package utils

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a non-negative decimal with at most two fractional digits")

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a major-unit decimal string such as "10.5" into minor
// units (1050).
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	minor := d.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrInvalidAmount
	}
	if minor.GreaterThan(maxMinorUnits) {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}
