package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-faction_arena/internal/token"
	"okinoko-faction_arena/sdk"
)

const (
	arena  = sdk.Address("contract:arena")
	vaultA = sdk.Address("contract:vault")
	admin  = sdk.Address("hive:admin")
	alice  = sdk.Address("hive:alice")
	usdc   = sdk.Asset("usdc")
	blnd   = sdk.Asset("blnd")
)

func newVault(t *testing.T, chain *sdk.FakeChain) (*Vault, *token.Ledger) {
	t.Helper()
	tokens := token.New(chain)
	v, err := New(chain, tokens, Config{
		Address:    vaultA,
		Underlying: usdc,
		Emission:   blnd,
		Funder:     arena,
		Admin:      admin,
		Reserves:   []uint32{0, 1},
	})
	require.NoError(t, err)
	return v, tokens
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(sdk.NewFakeChain(alice, 0), nil, Config{Address: vaultA})
	assert.ErrorIs(t, err, errVaultMisconfigured)
}

func TestDepositIsFundedByFunder(t *testing.T) {
	chain := sdk.NewFakeChain(arena, 0)
	v, tokens := newVault(t, chain)

	_, err := v.Deposit(alice, 10)
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)

	require.NoError(t, tokens.Mint(arena, 100, usdc))
	shares, err := v.Deposit(alice, 60)
	require.NoError(t, err)
	assert.Equal(t, int64(60), shares)
	assert.Equal(t, int64(40), tokens.Balance(arena, usdc))
	assert.Equal(t, int64(60), tokens.Balance(vaultA, usdc))

	bal, _ := v.UnderlyingTokens(alice)
	assert.Equal(t, int64(60), bal)
}

func TestWithdraw(t *testing.T) {
	chain := sdk.NewFakeChain(arena, 0)
	v, tokens := newVault(t, chain)
	require.NoError(t, tokens.Mint(arena, 100, usdc))
	_, err := v.Deposit(alice, 100)
	require.NoError(t, err)

	_, err = v.Withdraw(alice, 101)
	assert.ErrorIs(t, err, ErrInsufficientShares)
	out, err := v.Withdraw(alice, 70)
	require.NoError(t, err)
	assert.Equal(t, int64(70), out)
	assert.Equal(t, int64(70), tokens.Balance(alice, usdc))
	bal, _ := v.UnderlyingTokens(alice)
	assert.Equal(t, int64(30), bal)
}

func TestEmissions(t *testing.T) {
	chain := sdk.NewFakeChain(admin, 0)
	v, tokens := newVault(t, chain)

	got, err := v.ClaimEmissions([]uint32{0, 1}, arena)
	require.NoError(t, err)
	assert.Zero(t, got)

	require.NoError(t, v.Accrue(0, 300))
	require.NoError(t, v.Accrue(1, 200))
	assert.ErrorIs(t, v.Accrue(7, 1), ErrUnknownReserve)

	got, err = v.ClaimEmissions([]uint32{0}, arena)
	require.NoError(t, err)
	assert.Equal(t, int64(300), got)
	assert.Equal(t, int64(300), tokens.Balance(arena, blnd))
	assert.Zero(t, v.Pending(0))
	assert.Equal(t, int64(200), v.Pending(1))

	_, err = v.ClaimEmissions([]uint32{1, 9}, arena)
	assert.ErrorIs(t, err, ErrUnknownReserve)
}

func TestDispatch(t *testing.T) {
	chain := sdk.NewFakeChain(alice, 0)
	v, tokens := newVault(t, chain)
	require.NoError(t, tokens.Mint(alice, 50_000_000, usdc))

	_, err := Dispatch(v, "deposit", "2")
	assert.ErrorIs(t, err, token.ErrNoAllowance)

	chain.SetIntents([]sdk.Intent{{Type: "transfer.allow", Args: map[string]string{"token": "usdc", "limit": "5"}}})
	_, err = Dispatch(v, "deposit", "2")
	require.NoError(t, err)
	_, err = Dispatch(v, "withdraw", "0.5")
	require.NoError(t, err)

	out, err := Dispatch(v, "balance", string(alice))
	require.NoError(t, err)
	assert.Equal(t, "1.5000000", *out)

	_, err = Dispatch(v, "accrue", "0|1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	chain.SetSender(admin)
	_, err = Dispatch(v, "accrue", "0|1")
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), v.Pending(0))

	for _, bad := range []string{"0", "x|1", "0|x"} {
		_, err = Dispatch(v, "accrue", bad)
		assert.Error(t, err, bad)
	}
}
