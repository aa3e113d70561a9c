package contract

// Faction point curve.
//
// fp(amount, duration) = amount * BaseFPPerUSDC * amountMult(amount) * timeMult(duration)
//
// Both multipliers are bell shaped: they rise from 1.0x at zero to PeakMult
// at the target, then fall towards their tail value at the ceiling and stay
// flat past it. The amount curve falls below 1.0x so that parking a very
// large deposit earns less per dollar than a moderate one.

const (
	// BaseFPPerUSDC is the FP granted per whole reward-token unit before multipliers.
	BaseFPPerUSDC int64 = 100

	TargetAmount int64 = 1_000 * Scale
	MaxAmount    int64 = 10_000 * Scale

	TargetTime uint64 = 35 * 86400
	MaxTime    uint64 = 245 * 86400

	// PeakMult is sqrt(6), so both curves at their target multiply to 6.0x.
	PeakMult int64 = 24_494_897
	// AmountTailMult is 1/sqrt(6): at the amount ceiling with peak duration
	// the combined multiplier is 1.0x, a sixth of the joint peak.
	AmountTailMult int64 = 4_082_482
	TimeTailMult   int64 = Scale
)

// smoothstep evaluates 3t^2 - 2t^3 for t in [0, Scale], scaled by Scale.
func smoothstep(t int64) (int64, error) {
	if t <= 0 {
		return 0, nil
	}
	if t >= Scale {
		return Scale, nil
	}
	p, err := product(t, t, 3*Scale-2*t)
	if err != nil {
		return 0, err
	}
	return quo(p, Scale*Scale)
}

// bell evaluates a multiplier curve at x. Inputs past ceiling are clamped.
func bell(x, target, ceiling, peak, tail int64) (int64, error) {
	if x < 0 {
		x = 0
	}
	if x > ceiling {
		x = ceiling
	}
	if x <= target {
		t, err := mulDiv(x, Scale, target)
		if err != nil {
			return 0, err
		}
		s, err := smoothstep(t)
		if err != nil {
			return 0, err
		}
		rise, err := mulDiv(peak-Scale, s, Scale)
		if err != nil {
			return 0, err
		}
		return Scale + rise, nil
	}
	u, err := mulDiv(x-target, Scale, ceiling-target)
	if err != nil {
		return 0, err
	}
	s, err := smoothstep(u)
	if err != nil {
		return 0, err
	}
	fall, err := mulDiv(peak-tail, Scale-s, Scale)
	if err != nil {
		return 0, err
	}
	return tail + fall, nil
}

// AmountMultiplier returns the deposit-size multiplier, scaled by Scale.
func AmountMultiplier(amount int64) (int64, error) {
	return bell(amount, TargetAmount, MaxAmount, PeakMult, AmountTailMult)
}

// TimeMultiplier returns the deposit-duration multiplier, scaled by Scale.
func TimeMultiplier(duration uint64) (int64, error) {
	d := min(duration, MaxTime)
	return bell(int64(d), int64(TargetTime), int64(MaxTime), PeakMult, TimeTailMult)
}

// FactionPoints computes the FP earned by amount held for duration seconds.
// The result is in the same seven-decimal units as amount. Negative amounts
// earn nothing.
func FactionPoints(amount int64, duration uint64) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}
	am, err := AmountMultiplier(amount)
	if err != nil {
		return 0, err
	}
	tm, err := TimeMultiplier(duration)
	if err != nil {
		return 0, err
	}
	p, err := product(amount, BaseFPPerUSDC, am, tm)
	if err != nil {
		return 0, err
	}
	return quo(p, Scale*Scale)
}
