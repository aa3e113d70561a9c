// Package vault simulates the yield vault the arena deposits into. Positions
// are one share per unit of the underlying token; yield arrives as emissions
// of a separate token, accrued per reserve and paid out by ClaimEmissions.
package vault

import (
	"strconv"

	"github.com/pkg/errors"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/internal/token"
	"okinoko-faction_arena/sdk"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidArgs        = errors.New("invalid arguments")
	ErrUnknownReserve     = errors.New("unknown reserve")
	errVaultMisconfigured = errors.New("vault is missing an address or token")
)

// Config wires the vault to its tokens.
type Config struct {
	// Address holds the deposited underlying.
	Address    sdk.Address `yaml:"address"`
	Underlying sdk.Asset   `yaml:"underlying"`
	Emission   sdk.Asset   `yaml:"emission"`
	// Funder pays for Deposit calls made on a player's behalf.
	Funder sdk.Address `yaml:"funder"`
	// Admin may accrue emissions.
	Admin    sdk.Address `yaml:"admin"`
	Reserves []uint32    `yaml:"reserves"`
}

func (c Config) validate() error {
	if c.Address == "" || c.Underlying == "" || c.Emission == "" {
		return errVaultMisconfigured
	}
	return nil
}

// Vault is bound to one invocation.
type Vault struct {
	chain  sdk.Chain
	tokens *token.Ledger
	cfg    Config
}

var _ contract.Vault = (*Vault)(nil)

func New(chain sdk.Chain, tokens *token.Ledger, cfg Config) (*Vault, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Vault{chain: chain, tokens: tokens, cfg: cfg}, nil
}

func (v *Vault) sharesKey(addr sdk.Address) string {
	return "v:" + string(v.cfg.Address) + ":s:" + string(addr)
}

func (v *Vault) emissionKey(reserve uint32) string {
	return "v:" + string(v.cfg.Address) + ":e:" + strconv.FormatUint(uint64(reserve), 10)
}

func (v *Vault) read(key string) int64 {
	raw := v.chain.StateGetObject(key)
	if raw == nil {
		return 0
	}
	n, _ := strconv.ParseInt(*raw, 10, 64)
	return n
}

func (v *Vault) write(key string, n int64) {
	if n == 0 {
		v.chain.StateDeleteObject(key)
		return
	}
	v.chain.StateSetObject(key, strconv.FormatInt(n, 10))
}

func (v *Vault) credit(player sdk.Address, amount int64) int64 {
	v.write(v.sharesKey(player), v.read(v.sharesKey(player))+amount)
	return amount
}

// Deposit moves amount of the underlying from the funder into the vault and
// credits the shares to player.
func (v *Vault) Deposit(player sdk.Address, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "deposit %d", amount)
	}
	if err := v.tokens.Transfer(v.cfg.Funder, v.cfg.Address, amount, v.cfg.Underlying); err != nil {
		return 0, errors.Wrap(err, "fund deposit")
	}
	return v.credit(player, amount), nil
}

// DepositFrom deposits the invocation sender's own tokens. The sender must
// attach a transfer.allow intent.
func (v *Vault) DepositFrom(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "deposit %d", amount)
	}
	if err := v.tokens.Draw(v.cfg.Address, amount, v.cfg.Underlying); err != nil {
		return 0, err
	}
	return v.credit(v.chain.GetEnv().Sender, amount), nil
}

// Withdraw redeems amount of player's position and pays the underlying out
// to player.
func (v *Vault) Withdraw(player sdk.Address, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "withdraw %d", amount)
	}
	shares := v.read(v.sharesKey(player))
	if shares < amount {
		return 0, errors.Wrapf(ErrInsufficientShares, "%s holds %d", player, shares)
	}
	if err := v.tokens.Transfer(v.cfg.Address, player, amount, v.cfg.Underlying); err != nil {
		return 0, err
	}
	v.write(v.sharesKey(player), shares-amount)
	return amount, nil
}

func (v *Vault) UnderlyingTokens(player sdk.Address) (int64, error) {
	return v.read(v.sharesKey(player)), nil
}

func (v *Vault) knownReserve(id uint32) bool {
	for _, r := range v.cfg.Reserves {
		if r == id {
			return true
		}
	}
	return false
}

// Accrue adds pending emissions to a reserve.
func (v *Vault) Accrue(reserve uint32, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "accrue %d", amount)
	}
	if !v.knownReserve(reserve) {
		return errors.Wrapf(ErrUnknownReserve, "reserve %d", reserve)
	}
	key := v.emissionKey(reserve)
	v.write(key, v.read(key)+amount)
	return nil
}

// Pending returns the emissions accrued on reserve.
func (v *Vault) Pending(reserve uint32) int64 { return v.read(v.emissionKey(reserve)) }

// ClaimEmissions mints every pending emission on reserveIDs to to and
// returns the total. Claiming nothing is not an error.
func (v *Vault) ClaimEmissions(reserveIDs []uint32, to sdk.Address) (int64, error) {
	var total int64
	for _, id := range reserveIDs {
		if !v.knownReserve(id) {
			return 0, errors.Wrapf(ErrUnknownReserve, "reserve %d", id)
		}
		total += v.read(v.emissionKey(id))
		v.write(v.emissionKey(id), 0)
	}
	if total == 0 {
		return 0, nil
	}
	if err := v.tokens.Mint(to, total, v.cfg.Emission); err != nil {
		return 0, err
	}
	return total, nil
}
