// Package units converts between human-readable token amounts ("1000.50")
// and the 7-decimal integer units used on the ledger.
package units

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Decimals is the precision of every ledger amount.
const Decimals = 7

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPrecision     = errors.New("amount has more than 7 decimals")
	ErrRange         = errors.New("amount out of range")
)

var maxUnits = decimal.NewFromInt(1<<63 - 1)

// ParseAmount parses s into integer units. Negative amounts are allowed; the
// caller decides whether they make sense.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	scaled := d.Shift(Decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, errors.Wrapf(ErrPrecision, "%q", s)
	}
	if scaled.Abs().GreaterThan(maxUnits) {
		return 0, errors.Wrapf(ErrRange, "%q", s)
	}
	return scaled.IntPart(), nil
}

// FormatAmount renders units with exactly Decimals fractional digits.
func FormatAmount(units int64) string {
	return decimal.New(units, -Decimals).StringFixed(Decimals)
}

// Whole returns n whole tokens in units.
func Whole(n int64) int64 { return n * 10_000_000 }
