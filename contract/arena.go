package contract

import (
	"okinoko-faction_arena/sdk"
)

// Vault is the yield-bearing vault the arena reads deposits from and pays
// rewards into. Rewards are never sent to a wallet directly.
type Vault interface {
	// Deposit credits amount of the reward token, funded by the arena, to
	// player's vault position and returns the shares minted.
	Deposit(player sdk.Address, amount int64) (int64, error)
	Withdraw(player sdk.Address, amount int64) (int64, error)
	UnderlyingTokens(player sdk.Address) (int64, error)
	ClaimEmissions(reserveIDs []uint32, to sdk.Address) (int64, error)
}

// Router is the swap venue used to convert vault emissions into the reward
// token.
type Router interface {
	GetAmountsOut(amountIn int64, path []sdk.Asset) ([]int64, error)
	SwapExactTokensForTokens(amountIn, amountOutMin int64, path []sdk.Asset, to sdk.Address, deadline uint64) ([]int64, error)
}

// Game is the capability set the arena exposes to a whitelisted game
// contract. Obtain one with Arena.Game.
type Game interface {
	StartGame(sessionID uint64, players []sdk.Address, wagers []int64) error
	EndGame(sessionID uint64, outcome Outcome) error
}

// Arena is the faction arena contract bound to one invocation's chain and
// its collaborators.
type Arena struct {
	chain  sdk.Chain
	vault  Vault
	router Router
}

func New(chain sdk.Chain, vault Vault, router Router) *Arena {
	return &Arena{chain: chain, vault: vault, router: router}
}

// Game returns the handle a game contract at addr drives sessions through.
// Whitelisting is checked on every call, not here.
func (a *Arena) Game(addr sdk.Address) Game {
	return gameHandle{arena: a, addr: addr}
}

type gameHandle struct {
	arena *Arena
	addr  sdk.Address
}

func (g gameHandle) StartGame(sessionID uint64, players []sdk.Address, wagers []int64) error {
	return g.arena.StartGame(g.addr, sessionID, players, wagers)
}

func (g gameHandle) EndGame(sessionID uint64, outcome Outcome) error {
	return g.arena.EndGame(g.addr, sessionID, outcome)
}

func (a *Arena) now() uint64 { return a.chain.GetEnv().Timestamp }

func (a *Arena) self() sdk.Address { return a.chain.GetEnv().ContractID }

// liveConfig loads the config and rejects player-facing calls while paused.
func (a *Arena) liveConfig() (*Config, error) {
	cfg, err := loadConfig(a.chain)
	if err != nil {
		return nil, err
	}
	if cfg.Paused {
		return nil, ErrContractPaused
	}
	return cfg, nil
}
