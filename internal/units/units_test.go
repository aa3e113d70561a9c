package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"1":            10_000_000,
		"1000.50":      10_005_000_000,
		"0.0000001":    1,
		"-2.5":         -25_000_000,
		"922337203685": 9_223_372_036_850_000_000,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseAmountRejects(t *testing.T) {
	_, err := ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseAmount("0.00000001")
	assert.ErrorIs(t, err, ErrPrecision)
	_, err = ParseAmount("922337203686")
	assert.ErrorIs(t, err, ErrRange)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1000.5000000", FormatAmount(10_005_000_000))
	assert.Equal(t, "0.0000001", FormatAmount(1))
	assert.Equal(t, "-2.5000000", FormatAmount(-25_000_000))
	assert.Equal(t, Whole(3), int64(30_000_000))
}
