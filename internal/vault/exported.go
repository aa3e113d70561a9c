package vault

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"okinoko-faction_arena/internal/units"
	"okinoko-faction_arena/sdk"
)

// Dispatch runs a vault entry point. Amounts are human readable.
//
//	deposit  <amount>             needs a transfer.allow intent
//	withdraw <amount>
//	balance  <addr>
//	accrue   <reserve>|<amount>   admin only
func Dispatch(v *Vault, method, payload string) (*string, error) {
	sender := v.chain.GetEnv().Sender
	switch method {
	case "deposit", "withdraw":
		amount, err := units.ParseAmount(payload)
		if err != nil {
			return nil, err
		}
		if method == "deposit" {
			_, err = v.DepositFrom(amount)
		} else {
			_, err = v.Withdraw(sender, amount)
		}
		return nil, err
	case "balance":
		if payload == "" {
			return nil, errors.Wrap(ErrInvalidArgs, "balance needs an address")
		}
		n, _ := v.UnderlyingTokens(sdk.Address(payload))
		out := units.FormatAmount(n)
		return &out, nil
	case "accrue":
		if sender != v.cfg.Admin {
			return nil, errors.Wrapf(ErrUnauthorized, "%s cannot accrue", sender)
		}
		reserve, amountStr, ok := strings.Cut(payload, "|")
		if !ok {
			return nil, errors.Wrapf(ErrInvalidArgs, "accrue %q", payload)
		}
		id, err := strconv.ParseUint(reserve, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgs, "reserve %q", reserve)
		}
		amount, err := units.ParseAmount(amountStr)
		if err != nil {
			return nil, err
		}
		return nil, v.Accrue(uint32(id), amount)
	}
	return nil, errors.Wrapf(ErrInvalidArgs, "unknown method %q", method)
}
