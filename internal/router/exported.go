package router

import (
	"strings"

	"github.com/pkg/errors"

	"okinoko-faction_arena/internal/units"
	"okinoko-faction_arena/sdk"
)

// Dispatch runs a router entry point. Amounts are human readable.
//
//	quote <amount>|<asset>|<asset>...            returns comma separated amounts
//	swap  <amount>|<minOut>|<asset>|<asset>...   sender pays and receives
func Dispatch(r *Router, method, payload string) (*string, error) {
	args := strings.Split(payload, "|")
	switch method {
	case "quote":
		if len(args) < 3 {
			return nil, errors.Wrapf(ErrInvalidArgs, "quote %q", payload)
		}
		amount, err := units.ParseAmount(args[0])
		if err != nil {
			return nil, err
		}
		amounts, err := r.GetAmountsOut(amount, assets(args[1:]))
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(amounts))
		for i, a := range amounts {
			parts[i] = units.FormatAmount(a)
		}
		out := strings.Join(parts, ",")
		return &out, nil
	case "swap":
		if len(args) < 4 {
			return nil, errors.Wrapf(ErrInvalidArgs, "swap %q", payload)
		}
		amount, err := units.ParseAmount(args[0])
		if err != nil {
			return nil, err
		}
		minOut, err := units.ParseAmount(args[1])
		if err != nil {
			return nil, err
		}
		env := r.chain.GetEnv()
		r.payer = env.Sender
		amounts, err := r.SwapExactTokensForTokens(amount, minOut, assets(args[2:]), env.Sender, env.Timestamp)
		if err != nil {
			return nil, err
		}
		out := units.FormatAmount(amounts[len(amounts)-1])
		return &out, nil
	}
	return nil, errors.Wrapf(ErrInvalidArgs, "unknown method %q", method)
}

func assets(in []string) []sdk.Asset {
	out := make([]sdk.Asset, len(in))
	for i, s := range in {
		out[i] = sdk.Asset(s)
	}
	return out
}
