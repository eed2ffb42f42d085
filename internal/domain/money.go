package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balances and amounts are stored as int64 minor units (paise/cents) to keep
// arithmetic exact. On the wire they travel as decimal strings with two
// fractional digits ("40.00").

const minorUnitExponent = 2

// MinorUnits parses a wire-format decimal amount into minor units. Amounts
// with more than two fractional digits are rejected rather than rounded.
func MinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("MinorUnits: %w", ErrInvalidRequest)
	}
	shifted := d.Shift(minorUnitExponent)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("MinorUnits: more than %d decimal places: %w", minorUnitExponent, ErrInvalidRequest)
	}
	return shifted.IntPart(), nil
}

// FormatAmount renders minor units as a two-decimal wire string.
func FormatAmount(minor int64) string {
	return decimal.NewFromInt(minor).Shift(-minorUnitExponent).StringFixed(minorUnitExponent)
}
