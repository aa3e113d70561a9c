// Package router simulates the swap venue the arena sells vault emissions
// on. Each registered pair trades at a fixed rate minus a fee, against
// liquidity held at the router's own address.
package router

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/internal/token"
	"okinoko-faction_arena/sdk"
)

var (
	ErrInvalidPath           = errors.New("invalid swap path")
	ErrUnknownPair           = errors.New("unknown pair")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrExpired               = errors.New("swap deadline passed")
	ErrInsufficientOutput    = errors.New("insufficient output amount")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidArgs           = errors.New("invalid arguments")
)

const bpsDenom = 10_000

// Pair quotes From -> To at Num/Den, less FeeBps.
type Pair struct {
	From   sdk.Asset `yaml:"from"`
	To     sdk.Asset `yaml:"to"`
	Num    uint64    `yaml:"num"`
	Den    uint64    `yaml:"den"`
	FeeBps uint64    `yaml:"fee_bps"`
}

// Config is the router's address and pair table.
type Config struct {
	Address sdk.Address `yaml:"address"`
	Pairs   []Pair      `yaml:"pairs"`
}

// Router is bound to one invocation. payer funds the input leg of swaps.
type Router struct {
	chain  sdk.Chain
	tokens *token.Ledger
	cfg    Config
	payer  sdk.Address
}

var _ contract.Router = (*Router)(nil)

func New(chain sdk.Chain, tokens *token.Ledger, cfg Config, payer sdk.Address) *Router {
	return &Router{chain: chain, tokens: tokens, cfg: cfg, payer: payer}
}

func (r *Router) pair(from, to sdk.Asset) (Pair, bool) {
	for _, p := range r.cfg.Pairs {
		if p.From == from && p.To == to {
			return p, true
		}
	}
	return Pair{}, false
}

// out converts amount across p, flooring.
func (p Pair) out(amount int64) (int64, error) {
	if p.Den == 0 {
		return 0, errors.Wrapf(ErrUnknownPair, "%s/%s has zero denominator", p.From, p.To)
	}
	v := new(uint256.Int).Mul(uint256.NewInt(uint64(amount)), uint256.NewInt(p.Num))
	v.Mul(v, uint256.NewInt(bpsDenom-p.FeeBps))
	v.Div(v, new(uint256.Int).Mul(uint256.NewInt(p.Den), uint256.NewInt(bpsDenom)))
	if !v.IsUint64() || v.Uint64() > 1<<63-1 {
		return 0, errors.Wrap(ErrInvalidAmount, "output overflows")
	}
	return int64(v.Uint64()), nil
}

// GetAmountsOut returns the amount after every hop of path, starting with
// amountIn.
func (r *Router) GetAmountsOut(amountIn int64, path []sdk.Asset) ([]int64, error) {
	if len(path) < 2 {
		return nil, errors.Wrapf(ErrInvalidPath, "%d hops", len(path))
	}
	if amountIn <= 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "amount in %d", amountIn)
	}
	amounts := make([]int64, len(path))
	amounts[0] = amountIn
	for i := 1; i < len(path); i++ {
		p, ok := r.pair(path[i-1], path[i])
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPair, "%s/%s", path[i-1], path[i])
		}
		out, err := p.out(amounts[i-1])
		if err != nil {
			return nil, err
		}
		amounts[i] = out
	}
	return amounts, nil
}

// SwapExactTokensForTokens sells amountIn of path[0] from the payer and
// delivers the last hop's output to to.
func (r *Router) SwapExactTokensForTokens(amountIn, amountOutMin int64, path []sdk.Asset, to sdk.Address, deadline uint64) ([]int64, error) {
	if now := r.chain.GetEnv().Timestamp; now > deadline {
		return nil, errors.Wrapf(ErrExpired, "now %d deadline %d", now, deadline)
	}
	amounts, err := r.GetAmountsOut(amountIn, path)
	if err != nil {
		return nil, err
	}
	last := len(path) - 1
	if amounts[last] < amountOutMin {
		return nil, errors.Wrapf(ErrInsufficientOutput, "got %d want %d", amounts[last], amountOutMin)
	}
	if amounts[last] == 0 {
		return nil, errors.Wrap(ErrInsufficientOutput, "zero output")
	}
	if have := r.tokens.Balance(r.cfg.Address, path[last]); have < amounts[last] {
		return nil, errors.Wrapf(ErrInsufficientLiquidity, "%d %s available", have, path[last])
	}
	if err := r.tokens.Transfer(r.payer, r.cfg.Address, amountIn, path[0]); err != nil {
		return nil, err
	}
	if err := r.tokens.Transfer(r.cfg.Address, to, amounts[last], path[last]); err != nil {
		return nil, err
	}
	return amounts, nil
}
