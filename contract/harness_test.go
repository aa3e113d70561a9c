package contract

import (
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"okinoko-faction_arena/sdk"
)

const (
	admin     = sdk.Address("hive:admin")
	arenaAddr = sdk.Address("contract:arena")
	duelAddr  = sdk.Address("contract:duel")
	otherGame = sdk.Address("contract:other")
	developer = sdk.Address("hive:dev")
	alice     = sdk.Address("hive:alice")
	bob       = sdk.Address("hive:bob")
	carol     = sdk.Address("hive:carol")

	t0   uint64 = 1_700_000_000
	day  uint64 = 86400
	week        = 7 * day

	usdc sdk.Asset = "usdc"
	blnd sdk.Asset = "blnd"
)

func usd(n int64) int64 { return n * Scale }

// fakeVault keeps balances in chain state so Invoke rolls them back together
// with the arena's own writes.
type fakeVault struct {
	chain     *sdk.FakeChain
	failClaim error
}

func (v *fakeVault) read(key string) int64 {
	raw := v.chain.StateGetObject(key)
	if raw == nil {
		return 0
	}
	n, _ := strconv.ParseInt(*raw, 10, 64)
	return n
}

func (v *fakeVault) write(key string, n int64) {
	v.chain.StateSetObject(key, strconv.FormatInt(n, 10))
}

func (v *fakeVault) set(player sdk.Address, amount int64) { v.write("fv:"+string(player), amount) }

func (v *fakeVault) accrue(amount int64) { v.write("fv:emissions", v.read("fv:emissions")+amount) }

func (v *fakeVault) Deposit(player sdk.Address, amount int64) (int64, error) {
	v.set(player, v.read("fv:"+string(player))+amount)
	return amount, nil
}

func (v *fakeVault) Withdraw(player sdk.Address, amount int64) (int64, error) {
	bal := v.read("fv:" + string(player))
	if amount > bal {
		return 0, errors.New("insufficient balance")
	}
	v.set(player, bal-amount)
	return amount, nil
}

func (v *fakeVault) UnderlyingTokens(player sdk.Address) (int64, error) {
	return v.read("fv:" + string(player)), nil
}

func (v *fakeVault) ClaimEmissions(_ []uint32, _ sdk.Address) (int64, error) {
	if v.failClaim != nil {
		return 0, v.failClaim
	}
	n := v.read("fv:emissions")
	v.write("fv:emissions", 0)
	return n, nil
}

// fakeRouter swaps at a fixed rate of num/den.
type fakeRouter struct {
	num, den int64
	// shortfall is subtracted from the executed output.
	shortfall int64
	failSwap  error
	swaps     int
}

func (r *fakeRouter) GetAmountsOut(amountIn int64, path []sdk.Asset) ([]int64, error) {
	return []int64{amountIn, amountIn * r.num / r.den}, nil
}

func (r *fakeRouter) SwapExactTokensForTokens(amountIn, amountOutMin int64, path []sdk.Asset, _ sdk.Address, _ uint64) ([]int64, error) {
	if r.failSwap != nil {
		return nil, r.failSwap
	}
	r.swaps++
	out := amountIn*r.num/r.den - r.shortfall
	if out < amountOutMin {
		return nil, errors.New("insufficient output amount")
	}
	return []int64{amountIn, out}, nil
}

func testConfig() Config {
	return Config{
		Admin:             admin,
		Vault:             "contract:vault",
		Router:            "contract:router",
		RewardToken:       usdc,
		YieldToken:        blnd,
		EpochDuration:     week,
		DevShareBps:       1000,
		FreeFPPerEpoch:    usd(100),
		MinDepositToClaim: usd(1),
		ReserveIDs:        []uint32{1},
		SwapSlippageBps:   100,
		SwapDeadline:      300,
	}
}

type harness struct {
	t      *testing.T
	chain  *sdk.FakeChain
	vault  *fakeVault
	router *fakeRouter
}

// newHarness returns an initialized arena at t0 with the duel game
// whitelisted.
func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, testConfig())
}

func newHarnessWith(t *testing.T, cfg Config) *harness {
	t.Helper()
	chain := sdk.NewFakeChain(admin, t0)
	chain.SetContractID(arenaAddr)
	h := &harness{
		t:      t,
		chain:  chain,
		vault:  &fakeVault{chain: chain},
		router: &fakeRouter{num: 1, den: 2},
	}
	require.NoError(t, h.call(admin, func(a *Arena) error { return a.Initialize(cfg) }))
	require.NoError(t, h.call(admin, func(a *Arena) error { return a.AddGame(duelAddr, developer) }))
	return h
}

func (h *harness) arena() *Arena { return New(h.chain, h.vault, h.router) }

// call runs fn as one invocation signed by sender.
func (h *harness) call(sender sdk.Address, fn func(a *Arena) error) error {
	h.chain.SetSender(sender)
	return h.chain.Invoke(func() error { return fn(h.arena()) })
}

func (h *harness) selectFaction(p sdk.Address, f Faction) {
	h.t.Helper()
	require.NoError(h.t, h.call(p, func(a *Arena) error { return a.SelectFaction(p, f) }))
}

func (h *harness) start(game sdk.Address, id uint64, players []sdk.Address, wagers []int64) error {
	return h.call(players[0], func(a *Arena) error {
		return a.Game(game).StartGame(id, players, wagers)
	})
}

func (h *harness) end(game sdk.Address, id uint64, players []sdk.Address, winner sdk.Address) error {
	return h.call(players[0], func(a *Arena) error {
		return a.Game(game).EndGame(id, Outcome{Players: players, Winner: winner})
	})
}

// duel plays a full session and requires it to succeed.
func (h *harness) duel(id uint64, p1, p2 sdk.Address, w1, w2 int64, winner sdk.Address) {
	h.t.Helper()
	players := []sdk.Address{p1, p2}
	require.NoError(h.t, h.start(duelAddr, id, players, []int64{w1, w2}))
	require.NoError(h.t, h.end(duelAddr, id, players, winner))
}

func (h *harness) cycle() (*EpochInfo, error) {
	var e *EpochInfo
	err := h.call(admin, func(a *Arena) error {
		var err error
		e, err = a.CycleEpoch(nil)
		return err
	})
	return e, err
}

func (h *harness) epochPlayer(epoch uint64, p sdk.Address) *EpochPlayer {
	h.t.Helper()
	ep, err := h.arena().GetEpochPlayer(epoch, p)
	require.NoError(h.t, err)
	return ep
}

func (h *harness) epoch(id uint64) *EpochInfo {
	h.t.Helper()
	e, err := h.arena().GetEpoch(id)
	require.NoError(h.t, err)
	return e
}

func (h *harness) claim(p sdk.Address, epoch uint64) (int64, error) {
	var reward int64
	err := h.call(p, func(a *Arena) error {
		var err error
		reward, err = a.ClaimEpochReward(p, epoch)
		return err
	})
	return reward, err
}

func requireCode(t *testing.T, err error, want *Error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, want, "got %v", err)
}
