package contract

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// finalizedEpoch loads an epoch that rewards can be paid from.
func finalizedEpoch(store kv, epochID uint64) (*EpochInfo, error) {
	e, err := mustLoadEpoch(store, epochID)
	if err != nil {
		return nil, err
	}
	if !e.IsFinalized || e.WinningFaction == nil {
		return nil, errors.Wrapf(ErrEpochNotFinalized, "epoch %d", epochID)
	}
	return e, nil
}

// ClaimEpochReward pays player their share of a finalized epoch's reward
// pool, proportional to the FP they contributed to the winning faction.
// The reward is deposited into the vault on the player's behalf.
//
// reward = floor(RewardPool * playerFP / winningFactionFP), so the sum of
// all claims never exceeds the pool.
func (a *Arena) ClaimEpochReward(player sdk.Address, epochID uint64) (int64, error) {
	cfg, err := a.liveConfig()
	if err != nil {
		return 0, err
	}
	e, err := finalizedEpoch(a.chain, epochID)
	if err != nil {
		return 0, err
	}
	ep, found, err := loadEpochPlayer(a.chain, epochID, player)
	if err != nil {
		return 0, err
	}
	if !found || ep.EpochFaction == nil || *ep.EpochFaction != *e.WinningFaction {
		return 0, ErrNotWinningFaction
	}
	if ep.Claimed {
		return 0, ErrRewardAlreadyClaimed
	}
	balance, err := a.vault.UnderlyingTokens(player)
	if err != nil {
		return 0, errors.Wrap(ErrVault, err.Error())
	}
	if balance < cfg.MinDepositToClaim {
		return 0, ErrDepositRequiredToClaim
	}
	if ep.TotalFPContributed == 0 {
		return 0, ErrNoRewardsAvailable
	}
	reward, err := mulDiv(e.RewardPool, ep.TotalFPContributed, e.FactionStandings[*e.WinningFaction])
	if err != nil {
		return 0, err
	}
	if reward == 0 {
		return 0, ErrNoRewardsAvailable
	}
	if _, err := a.vault.Deposit(player, reward); err != nil {
		return 0, errors.Wrap(ErrVault, err.Error())
	}
	ep.Claimed = true
	saveEpochPlayer(a.chain, epochID, player, ep)
	EmitRewardClaimed(a.chain, epochID, player, reward)
	return reward, nil
}

// ClaimDevReward pays the developer of game its share of the epoch's
// developer pool, proportional to the FP settled through that game.
func (a *Arena) ClaimDevReward(developer, game sdk.Address, epochID uint64) (int64, error) {
	if _, err := a.liveConfig(); err != nil {
		return 0, err
	}
	e, err := finalizedEpoch(a.chain, epochID)
	if err != nil {
		return 0, err
	}
	gi, found, err := loadGameInfo(a.chain, game)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.Wrapf(ErrGameNotFound, "game %s", game)
	}
	if gi.Developer != developer {
		return 0, ErrNotGameDeveloper
	}
	eg, err := loadEpochGame(a.chain, epochID, game)
	if err != nil {
		return 0, err
	}
	if eg.DevClaimed {
		return 0, ErrRewardAlreadyClaimed
	}
	if eg.FPContributed == 0 || e.TotalGameFP == 0 {
		return 0, ErrNoRewardsAvailable
	}
	reward, err := mulDiv(e.DevRewardPool, eg.FPContributed, e.TotalGameFP)
	if err != nil {
		return 0, err
	}
	if reward == 0 {
		return 0, ErrNoRewardsAvailable
	}
	if _, err := a.vault.Deposit(developer, reward); err != nil {
		return 0, errors.Wrap(ErrVault, err.Error())
	}
	eg.DevClaimed = true
	saveEpochGame(a.chain, epochID, game, eg)
	EmitDevRewardClaimed(a.chain, epochID, game, developer, reward)
	return reward, nil
}
