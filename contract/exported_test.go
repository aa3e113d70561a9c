package contract

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-faction_arena/sdk"
)

// dispatch runs one entry point as sender, with caller as the immediate
// caller when set.
func (h *harness) dispatch(sender, caller sdk.Address, method, payload string) (*string, error) {
	h.chain.SetSender(sender)
	if caller != "" {
		h.chain.SetCaller(caller)
	}
	var out *string
	err := h.chain.Invoke(func() error {
		var err error
		out, err = Dispatch(h.arena(), method, payload)
		return err
	})
	return out, err
}

func TestDispatchInit(t *testing.T) {
	chain := sdk.NewFakeChain(admin, t0)
	h := &harness{t: t, chain: chain, vault: &fakeVault{chain: chain}, router: &fakeRouter{num: 1, den: 1}}

	raw, err := json.Marshal(testConfig())
	require.NoError(t, err)
	_, err = h.dispatch(admin, "", "init", string(raw))
	require.NoError(t, err)

	out, err := h.dispatch(alice, "", "cfg_get", "")
	require.NoError(t, err)
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(*out), &cfg))
	assert.Equal(t, testConfig(), cfg)

	_, err = h.dispatch(admin, "", "init", "{not json")
	requireCode(t, err, ErrInvalidPayload)
}

func TestDispatchGameFlow(t *testing.T) {
	h := newHarness(t)
	for p, f := range map[sdk.Address]string{alice: "0", bob: "1"} {
		_, err := h.dispatch(p, "", "fp_select", f)
		require.NoError(t, err)
	}
	_, err := h.dispatch(alice, "", "fp_select", "3")
	requireCode(t, err, ErrInvalidFaction)

	out, err := h.dispatch(alice, "", "fp_preview", "")
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(usd(100), 10), *out)

	_, err = h.dispatch(alice, duelAddr, "g_start", "1|hive:alice|"+strconv.FormatInt(usd(20), 10)+"|hive:bob|"+strconv.FormatInt(usd(10), 10))
	require.NoError(t, err)
	_, err = h.dispatch(alice, duelAddr, "g_end", "1|hive:alice|hive:alice|hive:bob")
	require.NoError(t, err)

	out, err = h.dispatch(alice, "", "g_get", "1")
	require.NoError(t, err)
	var s Session
	require.NoError(t, json.Unmarshal([]byte(*out), &s))
	assert.Equal(t, SessionEnded, s.Status)

	out, err = h.dispatch(alice, "", "ep_get", "0|hive:alice")
	require.NoError(t, err)
	var ep EpochPlayer
	require.NoError(t, json.Unmarshal([]byte(*out), &ep))
	assert.Equal(t, usd(20), ep.TotalFPContributed)

	out, err = h.dispatch(alice, "", "e_current", "")
	require.NoError(t, err)
	var e EpochInfo
	require.NoError(t, json.Unmarshal([]byte(*out), &e))
	assert.Equal(t, usd(20), e.FactionStandings[WholeNoodle])

	out, err = h.dispatch(alice, "", "p_get", "hive:nobody")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDispatchEpochAndClaims(t *testing.T) {
	h := newHarness(t)
	readyPlayers(h)
	h.vault.set(alice, usd(10))
	h.duel(1, alice, bob, usd(10), usd(10), alice)
	h.vault.accrue(usd(100))
	h.chain.Advance(week)

	_, err := h.dispatch(admin, "", "e_cycle", "0")
	require.NoError(t, err)
	_, err = h.dispatch(admin, "", "e_cycle", "0")
	requireCode(t, err, ErrEpochAlreadyFinalized)

	out, err := h.dispatch(alice, "", "r_claim", "0")
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(usd(45), 10), *out)

	out, err = h.dispatch(developer, "", "r_claim_dev", "contract:duel|0")
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(usd(5), 10), *out)

	out, err = h.dispatch(alice, "", "e_get", "0")
	require.NoError(t, err)
	var e EpochInfo
	require.NoError(t, json.Unmarshal([]byte(*out), &e))
	assert.True(t, e.IsFinalized)
}

func TestDispatchAdmin(t *testing.T) {
	h := newHarness(t)

	_, err := h.dispatch(admin, "", "a_game_add", "contract:other|hive:carol")
	require.NoError(t, err)
	out, err := h.dispatch(alice, "", "gm_get", "contract:other")
	require.NoError(t, err)
	var gi GameInfo
	require.NoError(t, json.Unmarshal([]byte(*out), &gi))
	assert.Equal(t, carol, gi.Developer)

	_, err = h.dispatch(admin, "", "a_game_remove", "contract:other")
	require.NoError(t, err)
	_, err = h.dispatch(admin, "", "a_config", `{"devShareBps":500}`)
	require.NoError(t, err)
	_, err = h.dispatch(admin, "", "a_pause", "")
	require.NoError(t, err)
	_, err = h.dispatch(alice, "", "fp_select", "1")
	requireCode(t, err, ErrContractPaused)
	_, err = h.dispatch(admin, "", "a_unpause", "")
	require.NoError(t, err)
	_, err = h.dispatch(admin, "", "a_admin", "hive:carol")
	require.NoError(t, err)
	_, err = h.dispatch(admin, "", "a_pause", "")
	requireCode(t, err, ErrNotAdmin)
}

func TestDispatchRejectsBadPayloads(t *testing.T) {
	h := newHarness(t)
	for _, tc := range []struct{ method, payload string }{
		{"nope", ""},
		{"fp_select", "x"},
		{"g_start", "abc|hive:alice|1"},
		{"g_start", "1|hive:alice"},
		{"g_end", "1|"},
		{"ep_get", "0"},
		{"r_claim", ""},
		{"r_claim_dev", "contract:duel|0|extra"},
		{"a_game_add", "contract:x"},
		{"a_pause", "now"},
		{"e_cycle", "-1"},
	} {
		_, err := h.dispatch(admin, duelAddr, tc.method, tc.payload)
		requireCode(t, err, ErrInvalidPayload)
	}
}

func TestAbortMessage(t *testing.T) {
	h := newHarness(t)
	_, err := h.dispatch(alice, "", "r_claim", "0")
	require.Error(t, err)
	assert.Equal(t, "30: epoch 0: epoch not finalized", AbortMessage(err))

	ce, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CategoryEpoch, ce.Category)

	assert.Contains(t, Methods(), "e_cycle")
	assert.Len(t, Methods(), 21)
}
