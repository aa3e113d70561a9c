package contract

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Admin == "" {
		result = multierror.Append(result, fmt.Errorf("admin is mandatory"))
	} else if len(c.Admin) > MaxAddressLength {
		result = multierror.Append(result, fmt.Errorf("admin longer than %d bytes", MaxAddressLength))
	}
	if c.RewardToken == "" || c.YieldToken == "" {
		result = multierror.Append(result, fmt.Errorf("reward and yield tokens are mandatory"))
	}
	if c.EpochDuration == 0 {
		result = multierror.Append(result, fmt.Errorf("epoch duration must be positive"))
	}
	if c.DevShareBps > bpsDenominator {
		result = multierror.Append(result, fmt.Errorf("dev share %d bps above 10000", c.DevShareBps))
	}
	if c.SwapSlippageBps > bpsDenominator {
		result = multierror.Append(result, fmt.Errorf("slippage %d bps above 10000", c.SwapSlippageBps))
	}
	if c.FreeFPPerEpoch < 0 {
		result = multierror.Append(result, fmt.Errorf("free fp per epoch is negative"))
	}
	if c.MinDepositToClaim < 0 {
		result = multierror.Append(result, fmt.Errorf("min deposit to claim is negative"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// Initialize stores the genesis config and opens epoch 0 at the current
// block time. It can run exactly once.
func (a *Arena) Initialize(cfg Config) error {
	if _, ok := get(a.chain, configKey); ok {
		return ErrAlreadyInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	now := a.now()
	if err := saveConfig(a.chain, &cfg); err != nil {
		return err
	}
	genesis := &EpochInfo{ID: 0, StartTime: now, EndTime: now + cfg.EpochDuration}
	if err := saveEpoch(a.chain, genesis); err != nil {
		return err
	}
	setCurrentEpochID(a.chain, genesis.ID)
	EmitConfigUpdated(a.chain, a.chain.GetEnv().Sender)
	return nil
}

// adminConfig loads the config and checks the sender is the admin. Admin
// calls stay available while the contract is paused.
func (a *Arena) adminConfig() (*Config, error) {
	cfg, err := loadConfig(a.chain)
	if err != nil {
		return nil, err
	}
	if sender := a.chain.GetEnv().Sender; sender != cfg.Admin {
		return nil, errors.Wrapf(ErrNotAdmin, "sender %s", sender)
	}
	return cfg, nil
}

// ConfigUpdate holds the admin-tunable parameters. Nil fields are left
// unchanged.
type ConfigUpdate struct {
	EpochDuration     *uint64  `json:"epochDuration,omitempty"`
	DevShareBps       *uint32  `json:"devShareBps,omitempty"`
	FreeFPPerEpoch    *int64   `json:"freeFpPerEpoch,omitempty"`
	MinDepositToClaim *int64   `json:"minDepositToClaim,omitempty"`
	ReserveIDs        []uint32 `json:"reserveIds,omitempty"`
	SwapSlippageBps   *uint32  `json:"swapSlippageBps,omitempty"`
	SwapDeadline      *uint64  `json:"swapDeadline,omitempty"`
}

func (a *Arena) UpdateConfig(u ConfigUpdate) error {
	cfg, err := a.adminConfig()
	if err != nil {
		return err
	}
	if u.EpochDuration != nil {
		cfg.EpochDuration = *u.EpochDuration
	}
	if u.DevShareBps != nil {
		cfg.DevShareBps = *u.DevShareBps
	}
	if u.FreeFPPerEpoch != nil {
		cfg.FreeFPPerEpoch = *u.FreeFPPerEpoch
	}
	if u.MinDepositToClaim != nil {
		cfg.MinDepositToClaim = *u.MinDepositToClaim
	}
	if u.ReserveIDs != nil {
		cfg.ReserveIDs = u.ReserveIDs
	}
	if u.SwapSlippageBps != nil {
		cfg.SwapSlippageBps = *u.SwapSlippageBps
	}
	if u.SwapDeadline != nil {
		cfg.SwapDeadline = *u.SwapDeadline
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := saveConfig(a.chain, cfg); err != nil {
		return err
	}
	EmitConfigUpdated(a.chain, cfg.Admin)
	return nil
}

// AddGame whitelists a game contract and records the developer who receives
// its share of the developer pool. Re-adding a removed game keeps its totals.
func (a *Arena) AddGame(game, developer sdk.Address) error {
	if _, err := a.adminConfig(); err != nil {
		return err
	}
	if err := checkAddress(game, "game"); err != nil {
		return err
	}
	if err := checkAddress(developer, "developer"); err != nil {
		return err
	}
	gi, found, err := loadGameInfo(a.chain, game)
	if err != nil {
		return err
	}
	if !found {
		gi = &GameInfo{Address: game, AddedAt: a.now()}
	}
	gi.Whitelisted = true
	gi.Developer = developer
	if err := saveGameInfo(a.chain, gi); err != nil {
		return err
	}
	EmitGameAdded(a.chain, game, developer)
	return nil
}

// RemoveGame takes a game off the whitelist. Its open sessions can no longer
// be started or ended; past contributions stay claimable by the developer.
func (a *Arena) RemoveGame(game sdk.Address) error {
	if _, err := a.adminConfig(); err != nil {
		return err
	}
	gi, found, err := loadGameInfo(a.chain, game)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrGameNotFound, "game %s", game)
	}
	gi.Whitelisted = false
	if err := saveGameInfo(a.chain, gi); err != nil {
		return err
	}
	EmitGameRemoved(a.chain, game)
	return nil
}

func (a *Arena) SetPaused(paused bool) error {
	cfg, err := a.adminConfig()
	if err != nil {
		return err
	}
	cfg.Paused = paused
	if err := saveConfig(a.chain, cfg); err != nil {
		return err
	}
	EmitPaused(a.chain, paused, cfg.Admin)
	return nil
}

func (a *Arena) SetAdmin(admin sdk.Address) error {
	cfg, err := a.adminConfig()
	if err != nil {
		return err
	}
	if err := checkAddress(admin, "admin"); err != nil {
		return err
	}
	cfg.Admin = admin
	if err := saveConfig(a.chain, cfg); err != nil {
		return err
	}
	EmitConfigUpdated(a.chain, admin)
	return nil
}
