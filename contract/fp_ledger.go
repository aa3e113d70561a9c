package contract

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// SelectFaction records the faction player will fight for. The choice can be
// changed freely until the player's first game of the epoch locks it, and it
// carries over to later epochs.
func (a *Arena) SelectFaction(player sdk.Address, faction Faction) error {
	if _, err := a.liveConfig(); err != nil {
		return err
	}
	if !faction.Valid() {
		return ErrInvalidFaction
	}
	if err := checkAddress(player, "player"); err != nil {
		return err
	}
	epochID, err := currentEpochID(a.chain)
	if err != nil {
		return err
	}
	ep, found, err := loadEpochPlayer(a.chain, epochID, player)
	if err != nil {
		return err
	}
	if found && ep.EpochFaction != nil {
		return ErrFactionAlreadyLocked
	}
	p, err := a.playerOrNew(player)
	if err != nil {
		return err
	}
	p.SelectedFaction = &faction
	savePlayer(a.chain, p)
	EmitFactionSelected(a.chain, player, faction)
	return nil
}

func (a *Arena) playerOrNew(addr sdk.Address) (*Player, error) {
	p, found, err := loadPlayer(a.chain, addr)
	if err != nil {
		return nil, err
	}
	if !found {
		p = &Player{Address: addr, FirstSeen: a.now()}
	}
	return p, nil
}

// computeEpochFP runs the balance tracker on p and returns the vault balance
// and the FP it is worth right now, including the free-play allotment for
// players below the claim threshold.
func (a *Arena) computeEpochFP(cfg *Config, p *Player) (balance, fp int64, reset bool, err error) {
	balance, err = a.vault.UnderlyingTokens(p.Address)
	if err != nil {
		return 0, 0, false, errors.Wrap(ErrVault, err.Error())
	}
	now := a.now()
	prev := p.LastBalance
	reset = trackBalance(p, balance, now)
	if reset {
		EmitBasisReset(a.chain, p.Address, prev, balance)
	}
	fp, err = FactionPoints(balance, depositDuration(p, now))
	if err != nil {
		return 0, 0, false, err
	}
	if balance < cfg.MinDepositToClaim {
		if fp, err = checkedAdd(fp, cfg.FreeFPPerEpoch); err != nil {
			return 0, 0, false, err
		}
	}
	return balance, fp, reset, nil
}

// initializeEpochFP opens the player's FP account for the epoch and locks
// the selected faction.
func (a *Arena) initializeEpochFP(cfg *Config, epochID uint64, p *Player) (*EpochPlayer, error) {
	if p.SelectedFaction == nil {
		return nil, errors.Wrapf(ErrFactionNotSelected, "player %s", p.Address)
	}
	balance, fp, _, err := a.computeEpochFP(cfg, p)
	if err != nil {
		return nil, err
	}
	faction := *p.SelectedFaction
	ep := &EpochPlayer{
		EpochFaction:         &faction,
		EpochBalanceSnapshot: balance,
		AvailableFP:          fp,
		Initialized:          true,
	}
	EmitEpochFPInitialized(a.chain, epochID, p.Address, faction, balance, fp)
	return ep, nil
}

// reserveFP debits a wager from the player's spendable FP.
func reserveFP(ep *EpochPlayer, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > ep.AvailableFP {
		return ErrInsufficientFactionPoints
	}
	ep.AvailableFP -= amount
	return nil
}

// creditContribution books a winning wager to the player, the faction
// standings, the epoch total and the game that produced it. Losing wagers
// are never credited anywhere.
func creditContribution(e *EpochInfo, ep *EpochPlayer, eg *EpochGame, gi *GameInfo, amount int64) error {
	if ep.EpochFaction == nil {
		return ErrFactionNotSelected
	}
	f := *ep.EpochFaction
	var err error
	if ep.TotalFPContributed, err = checkedAdd(ep.TotalFPContributed, amount); err != nil {
		return err
	}
	if e.FactionStandings[f], err = checkedAdd(e.FactionStandings[f], amount); err != nil {
		return err
	}
	if e.TotalGameFP, err = checkedAdd(e.TotalGameFP, amount); err != nil {
		return err
	}
	if eg.FPContributed, err = checkedAdd(eg.FPContributed, amount); err != nil {
		return err
	}
	gi.TotalFPContributed, err = checkedAdd(gi.TotalFPContributed, amount)
	return err
}

// PreviewFP returns the FP player would receive if their epoch account were
// opened now. It does not write state.
func (a *Arena) PreviewFP(player sdk.Address) (int64, error) {
	cfg, err := loadConfig(a.chain)
	if err != nil {
		return 0, err
	}
	p, err := a.playerOrNew(player)
	if err != nil {
		return 0, err
	}
	_, fp, _, err := a.previewOnCopy(cfg, p)
	return fp, err
}

func (a *Arena) previewOnCopy(cfg *Config, p *Player) (int64, int64, bool, error) {
	cp := *p
	quiet := &Arena{chain: discardLog{a.chain}, vault: a.vault, router: a.router}
	return quiet.computeEpochFP(cfg, &cp)
}

// discardLog keeps read-only previews from emitting events.
type discardLog struct{ sdk.Chain }

func (discardLog) Log(string) {}
