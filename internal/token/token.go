// Package token keeps fungible token balances in ledger state. It backs the
// simulated vault and router and the faucet used by the node.
package token

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"okinoko-faction_arena/internal/units"
	"okinoko-faction_arena/sdk"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoAllowance         = errors.New("missing transfer.allow intent")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidArgs         = errors.New("invalid arguments")
)

// Ledger reads and writes balances through one invocation's chain.
type Ledger struct {
	chain sdk.Chain
}

func New(chain sdk.Chain) *Ledger { return &Ledger{chain: chain} }

func balanceKey(asset sdk.Asset, addr sdk.Address) string {
	return "t:" + string(asset) + ":" + string(addr)
}

func supplyKey(asset sdk.Asset) string { return "t:" + string(asset) }

func (l *Ledger) read(key string) int64 {
	raw := l.chain.StateGetObject(key)
	if raw == nil {
		return 0
	}
	v, _ := strconv.ParseInt(*raw, 10, 64)
	return v
}

func (l *Ledger) write(key string, v int64) {
	if v == 0 {
		l.chain.StateDeleteObject(key)
		return
	}
	l.chain.StateSetObject(key, strconv.FormatInt(v, 10))
}

// Balance returns addr's balance of asset in units.
func (l *Ledger) Balance(addr sdk.Address, asset sdk.Asset) int64 {
	return l.read(balanceKey(asset, addr))
}

// Supply returns the amount of asset in circulation.
func (l *Ledger) Supply(asset sdk.Asset) int64 { return l.read(supplyKey(asset)) }

// Mint creates amount of asset at to.
func (l *Ledger) Mint(to sdk.Address, amount int64, asset sdk.Asset) error {
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "mint %d", amount)
	}
	bal := l.Balance(to, asset)
	supply := l.Supply(asset)
	if bal > (1<<63-1)-amount || supply > (1<<63-1)-amount {
		return errors.Wrap(ErrInvalidAmount, "supply overflow")
	}
	l.write(balanceKey(asset, to), bal+amount)
	l.write(supplyKey(asset), supply+amount)
	l.emit("mint", "", to, amount, asset)
	return nil
}

// Burn destroys amount of asset held by from.
func (l *Ledger) Burn(from sdk.Address, amount int64, asset sdk.Asset) error {
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "burn %d", amount)
	}
	bal := l.Balance(from, asset)
	if bal < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %d %s", from, bal, asset)
	}
	l.write(balanceKey(asset, from), bal-amount)
	l.write(supplyKey(asset), l.Supply(asset)-amount)
	l.emit("burn", from, "", amount, asset)
	return nil
}

// Transfer moves amount of asset from one address to another.
func (l *Ledger) Transfer(from, to sdk.Address, amount int64, asset sdk.Asset) error {
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "transfer %d", amount)
	}
	bal := l.Balance(from, asset)
	if bal < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %d %s", from, bal, asset)
	}
	if from == to {
		return nil
	}
	l.write(balanceKey(asset, from), bal-amount)
	l.write(balanceKey(asset, to), l.Balance(to, asset)+amount)
	l.emit("transfer", from, to, amount, asset)
	return nil
}

// Draw pulls amount of asset from the invocation's sender to to. The sender
// must have attached a transfer.allow intent for asset covering amount.
func (l *Ledger) Draw(to sdk.Address, amount int64, asset sdk.Asset) error {
	env := l.chain.GetEnv()
	limit, ok, err := Allowance(env.Intents, asset)
	if err != nil {
		return err
	}
	if !ok || limit < amount {
		return errors.Wrapf(ErrNoAllowance, "%d %s", amount, asset)
	}
	return l.Transfer(env.Sender, to, amount, asset)
}

// Allowance returns the limit of the first transfer.allow intent for asset.
func Allowance(intents []sdk.Intent, asset sdk.Asset) (int64, bool, error) {
	for _, intent := range intents {
		if intent.Type != "transfer.allow" || intent.Args["token"] != string(asset) {
			continue
		}
		limit, err := units.ParseAmount(intent.Args["limit"])
		if err != nil {
			return 0, false, errors.Wrap(err, "intent limit")
		}
		return limit, true, nil
	}
	return 0, false, nil
}

type event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func (l *Ledger) emit(kind string, from, to sdk.Address, amount int64, asset sdk.Asset) {
	attrs := map[string]string{
		"asset":  string(asset),
		"amount": strconv.FormatInt(amount, 10),
	}
	if from != "" {
		attrs["from"] = string(from)
	}
	if to != "" {
		attrs["to"] = string(to)
	}
	b, err := json.Marshal(event{Type: kind, Attributes: attrs})
	if err != nil {
		return
	}
	l.chain.Log(string(b))
}
