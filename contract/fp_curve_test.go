package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoothstepBounds(t *testing.T) {
	for _, tc := range []struct{ in, want int64 }{
		{-1, 0},
		{0, 0},
		{Scale / 2, Scale / 2},
		{Scale, Scale},
		{2 * Scale, Scale},
	} {
		got, err := smoothstep(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "smoothstep(%d)", tc.in)
	}
}

func TestAmountMultiplierShape(t *testing.T) {
	at := func(amount int64) int64 {
		m, err := AmountMultiplier(amount)
		require.NoError(t, err)
		return m
	}
	assert.Equal(t, Scale, at(0))
	assert.Equal(t, PeakMult, at(TargetAmount))
	assert.Equal(t, AmountTailMult, at(MaxAmount))
	assert.Equal(t, AmountTailMult, at(10*MaxAmount), "clamped past the ceiling")

	prev := at(0)
	for x := TargetAmount / 20; x <= TargetAmount; x += TargetAmount / 20 {
		m := at(x)
		assert.GreaterOrEqual(t, m, prev, "rising at %d", x)
		prev = m
	}
	for x := TargetAmount; x <= MaxAmount; x += MaxAmount / 20 {
		m := at(x)
		assert.LessOrEqual(t, m, prev, "falling at %d", x)
		prev = m
	}
}

func TestTimeMultiplierShape(t *testing.T) {
	at := func(d uint64) int64 {
		m, err := TimeMultiplier(d)
		require.NoError(t, err)
		return m
	}
	assert.Equal(t, Scale, at(0))
	assert.Equal(t, PeakMult, at(TargetTime))
	assert.Equal(t, TimeTailMult, at(MaxTime))
	assert.Equal(t, TimeTailMult, at(10*MaxTime))

	prev := at(0)
	for d := uint64(0); d <= TargetTime; d += day {
		m := at(d)
		assert.GreaterOrEqual(t, m, prev, "rising at day %d", d/day)
		prev = m
	}
	for d := TargetTime; d <= MaxTime; d += day {
		m := at(d)
		assert.LessOrEqual(t, m, prev, "falling at day %d", d/day)
		prev = m
	}
}

func TestFactionPointsJointPeak(t *testing.T) {
	fp, err := FactionPoints(TargetAmount, TargetTime)
	require.NoError(t, err)

	// sqrt(6)^2 truncated to seven decimals: 600 FP per dollar within 0.0001.
	perDollar := float64(fp) / float64(TargetAmount)
	assert.InDelta(t, 600.0, perDollar, 0.0001)
}

func TestFactionPointsCeilingIsSixthOfPeak(t *testing.T) {
	peak, err := FactionPoints(TargetAmount, TargetTime)
	require.NoError(t, err)
	ceiling, err := FactionPoints(MaxAmount, TargetTime)
	require.NoError(t, err)

	ratio := (float64(ceiling) / float64(MaxAmount)) / (float64(peak) / float64(TargetAmount))
	assert.InDelta(t, 1.0/6.0, ratio, 0.001)
}

func TestFactionPointsBaseline(t *testing.T) {
	fp, err := FactionPoints(usd(1), 0)
	require.NoError(t, err)
	assert.InDelta(t, float64(BaseFPPerUSDC*Scale), float64(fp), float64(Scale)/1000)

	for _, amount := range []int64{0, -usd(5)} {
		fp, err := FactionPoints(amount, TargetTime)
		require.NoError(t, err)
		assert.Zero(t, fp)
	}
}

func TestFactionPointsUsesUnclampedAmount(t *testing.T) {
	at, err := FactionPoints(MaxAmount, 0)
	require.NoError(t, err)
	past, err := FactionPoints(2*MaxAmount, 0)
	require.NoError(t, err)
	assert.Equal(t, 2*at, past)
}

func TestFixedPointGuards(t *testing.T) {
	_, err := mulDiv(1, 1, 0)
	requireCode(t, err, ErrDivisionByZero)

	_, err = mulDiv(1<<62, 1<<62, 1)
	requireCode(t, err, ErrOverflow)

	_, err = checkedAdd(1<<62, 1<<62)
	requireCode(t, err, ErrOverflow)

	_, err = checkedSub(1, 2)
	requireCode(t, err, ErrOverflow)

	got, err := bpsOf(usd(1000), 1000)
	require.NoError(t, err)
	assert.Equal(t, usd(100), got)
}
