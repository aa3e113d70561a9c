package contract

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Scale is the fixed-point unit: 1.0 == Scale. Token amounts use the same
// seven decimals.
const Scale int64 = 10_000_000

const bpsDenominator = 10_000

// product multiplies non-negative factors in 256-bit space.
func product(factors ...int64) (*uint256.Int, error) {
	acc := uint256.NewInt(1)
	for _, f := range factors {
		if f < 0 {
			return nil, errors.Wrapf(ErrInvalidAmount, "negative factor %d", f)
		}
		var overflow bool
		acc, overflow = new(uint256.Int).MulOverflow(acc, uint256.NewInt(uint64(f)))
		if overflow {
			return nil, ErrOverflow
		}
	}
	return acc, nil
}

// quo floors num/den and requires the result to fit an int64.
func quo(num *uint256.Int, den int64) (int64, error) {
	if den == 0 {
		return 0, ErrDivisionByZero
	}
	if den < 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "negative divisor %d", den)
	}
	q := new(uint256.Int).Div(num, uint256.NewInt(uint64(den)))
	if !q.IsUint64() || q.Uint64() > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(q.Uint64()), nil
}

// mulDiv returns floor(a*b/d).
func mulDiv(a, b, d int64) (int64, error) {
	p, err := product(a, b)
	if err != nil {
		return 0, err
	}
	return quo(p, d)
}

func checkedAdd(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// checkedSub rejects results below zero; balances never go negative.
func checkedSub(a, b int64) (int64, error) {
	if b > a {
		return 0, errors.Wrapf(ErrOverflow, "underflow %d - %d", a, b)
	}
	return a - b, nil
}

// bpsOf returns floor(amount * bps / 10000).
func bpsOf(amount int64, bps uint32) (int64, error) {
	return mulDiv(amount, int64(bps), bpsDenominator)
}
