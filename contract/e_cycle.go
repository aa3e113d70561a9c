package contract

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// winningFaction returns the faction with the most FP. Ties go to the lowest
// faction id.
func winningFaction(standings [FactionCount]int64) Faction {
	best := WholeNoodle
	for f := Faction(1); f < FactionCount; f++ {
		if standings[f] > standings[best] {
			best = f
		}
	}
	return best
}

// CycleEpoch closes the active epoch once its window has elapsed: it picks
// the winning faction, converts the vault's accrued emissions into the
// reward token, splits the proceeds into the player and developer pools and
// opens the next epoch.
//
// expected, when set, names the epoch the caller means to close; keepers use
// it so a replayed call fails with ErrEpochAlreadyFinalized instead of
// touching the next epoch.
//
// No state is written until every external call has succeeded.
func (a *Arena) CycleEpoch(expected *uint64) (*EpochInfo, error) {
	cfg, err := loadConfig(a.chain)
	if err != nil {
		return nil, err
	}
	current, err := currentEpochID(a.chain)
	if err != nil {
		return nil, err
	}
	target := current
	if expected != nil {
		target = *expected
	}
	e, err := mustLoadEpoch(a.chain, target)
	if err != nil {
		return nil, err
	}
	if e.IsFinalized {
		return nil, errors.Wrapf(ErrEpochAlreadyFinalized, "epoch %d", target)
	}
	if target != current {
		return nil, errors.Wrapf(ErrCorruptState, "epoch %d open but current is %d", target, current)
	}
	now := a.now()
	if now < e.EndTime {
		return nil, errors.Wrapf(ErrEpochNotReady, "epoch %d ends at %d", e.ID, e.EndTime)
	}

	winner := winningFaction(e.FactionStandings)

	claimed, err := a.vault.ClaimEmissions(cfg.ReserveIDs, a.self())
	if err != nil {
		return nil, errors.Wrap(ErrVault, err.Error())
	}
	proceeds := claimed
	if claimed > 0 && cfg.YieldToken != cfg.RewardToken {
		if proceeds, err = a.swapYield(cfg, claimed, now); err != nil {
			return nil, err
		}
	}
	dev, err := bpsOf(proceeds, cfg.DevShareBps)
	if err != nil {
		return nil, err
	}
	reward, err := checkedSub(proceeds, dev)
	if err != nil {
		return nil, err
	}

	st := newStage(a.chain)
	e.WinningFaction = &winner
	e.YieldClaimed = claimed
	e.SwapProceeds = proceeds
	e.DevRewardPool = dev
	e.RewardPool = reward
	e.IsFinalized = true
	next := &EpochInfo{
		ID:        e.ID + 1,
		StartTime: e.EndTime,
		EndTime:   e.EndTime + cfg.EpochDuration,
	}
	if err := saveEpoch(st, e); err != nil {
		return nil, err
	}
	if err := saveEpoch(st, next); err != nil {
		return nil, err
	}
	setCurrentEpochID(st, next.ID)
	st.commit()

	EmitEpochCycled(a.chain, e, next.ID)
	return e, nil
}

// swapYield sells claimed emissions for the reward token with a slippage
// bound taken from a fresh quote.
func (a *Arena) swapYield(cfg *Config, amountIn int64, now uint64) (int64, error) {
	path := []sdk.Asset{cfg.YieldToken, cfg.RewardToken}
	quote, err := a.router.GetAmountsOut(amountIn, path)
	if err != nil {
		return 0, errors.Wrap(ErrSwap, err.Error())
	}
	if len(quote) != len(path) {
		return 0, errors.Wrap(ErrSwap, "malformed quote")
	}
	minOut, err := bpsOf(quote[len(quote)-1], bpsDenominator-cfg.SwapSlippageBps)
	if err != nil {
		return 0, err
	}
	amounts, err := a.router.SwapExactTokensForTokens(amountIn, minOut, path, a.self(), now+cfg.SwapDeadline)
	if err != nil {
		return 0, errors.Wrap(ErrSwap, err.Error())
	}
	if len(amounts) != len(path) || amounts[len(amounts)-1] < minOut {
		return 0, errors.Wrap(ErrSwap, "output below minimum")
	}
	return amounts[len(amounts)-1], nil
}
