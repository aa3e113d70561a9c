package token

import (
	"strings"

	"github.com/pkg/errors"

	"okinoko-faction_arena/internal/units"
	"okinoko-faction_arena/sdk"
)

// Dispatch runs a token entry point. Amounts are human readable.
//
//	mint     <to>|<amount>|<asset>   minter only
//	transfer <to>|<amount>|<asset>
//	balance  <addr>|<asset>          returns the balance
func Dispatch(l *Ledger, minter sdk.Address, method, payload string) (*string, error) {
	env := l.chain.GetEnv()
	args := strings.Split(payload, "|")
	switch method {
	case "mint", "transfer":
		if len(args) != 3 || args[0] == "" || args[2] == "" {
			return nil, errors.Wrapf(ErrInvalidArgs, "%s %q", method, payload)
		}
		amount, err := units.ParseAmount(args[1])
		if err != nil {
			return nil, err
		}
		to, asset := sdk.Address(args[0]), sdk.Asset(args[2])
		if method == "transfer" {
			return nil, l.Transfer(env.Sender, to, amount, asset)
		}
		if env.Sender != minter {
			return nil, errors.Wrapf(ErrUnauthorized, "%s cannot mint", env.Sender)
		}
		return nil, l.Mint(to, amount, asset)
	case "balance":
		if len(args) != 2 {
			return nil, errors.Wrapf(ErrInvalidArgs, "balance %q", payload)
		}
		out := units.FormatAmount(l.Balance(sdk.Address(args[0]), sdk.Asset(args[1])))
		return &out, nil
	}
	return nil, errors.Wrapf(ErrInvalidArgs, "unknown method %q", method)
}
