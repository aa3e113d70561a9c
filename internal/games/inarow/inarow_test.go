package inarow

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/sdk"
)

const (
	creator  = sdk.Address("hive:someone")
	opponent = sdk.Address("hive:someoneelse")
	t0       = uint64(1_700_000_000)
)

type started struct {
	id      uint64
	players []sdk.Address
	wagers  []int64
}

// fakeArena records the session calls a game makes.
type fakeArena struct {
	started  []started
	ended    map[uint64]contract.Outcome
	startErr error
	endErr   error
}

func (f *fakeArena) StartGame(id uint64, players []sdk.Address, wagers []int64) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, started{id, players, wagers})
	return nil
}

func (f *fakeArena) EndGame(id uint64, o contract.Outcome) error {
	if f.endErr != nil {
		return errors.Wrapf(f.endErr, "session %d", id)
	}
	if f.ended == nil {
		f.ended = map[uint64]contract.Outcome{}
	}
	f.ended[id] = o
	return nil
}

type table struct {
	t     *testing.T
	chain *sdk.FakeChain
	arena *fakeArena
}

func newTable(t *testing.T) *table {
	return &table{t: t, chain: sdk.NewFakeChain(creator, t0), arena: &fakeArena{}}
}

func (tb *table) call(sender sdk.Address, method, payload string) (*string, error) {
	tb.chain.SetSender(sender)
	var out *string
	err := tb.chain.Invoke(func() error {
		var err error
		out, err = Dispatch(New(tb.chain, tb.arena), method, payload)
		return err
	})
	return out, err
}

func (tb *table) must(sender sdk.Address, method, payload string) *string {
	tb.t.Helper()
	out, err := tb.call(sender, method, payload)
	require.NoError(tb.t, err, "%s %s", method, payload)
	return out
}

func (tb *table) game(id uint64) *Game {
	tb.t.Helper()
	g, err := New(tb.chain, tb.arena).Get(id)
	require.NoError(tb.t, err)
	return g
}

func TestCreateAndJoinOpensSession(t *testing.T) {
	tb := newTable(t)
	id := tb.must(creator, "g_create", "1|XOXO|5000")
	assert.Equal(t, "1", *id)
	assert.Equal(t, "2", *tb.must(creator, "g_create", "2|Connect4|10"))

	_, err := tb.call(creator, "g_join", "1")
	assert.ErrorIs(t, err, ErrCreatorCannotJoin)

	tb.must(opponent, "g_join", "1")
	require.Len(t, tb.arena.started, 1)
	assert.Equal(t, started{1, []sdk.Address{creator, opponent}, []int64{5000, 5000}}, tb.arena.started[0])
	assert.Equal(t, InProgress, tb.game(1).Status)

	_, err = tb.call("hive:third", "g_join", "1")
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestJoinFailsWhenArenaRejects(t *testing.T) {
	tb := newTable(t)
	tb.must(creator, "g_create", "1|XOXO|5000")
	tb.arena.startErr = contract.ErrInsufficientFactionPoints

	_, err := tb.call(opponent, "g_join", "1")
	assert.ErrorIs(t, err, contract.ErrInsufficientFactionPoints)
	assert.Equal(t, WaitingForPlayer, tb.game(1).Status)
}

func TestCreateValidation(t *testing.T) {
	tb := newTable(t)
	for _, payload := range []string{"9|x|1", "1|x|0", "1|x|-5", "1|x|abc", "1|x|1|extra", "x|y|1"} {
		_, err := tb.call(creator, "g_create", payload)
		assert.Error(t, err, payload)
	}
	_, err := tb.call(creator, "g_nope", "")
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestTicTacToeCreatorWins(t *testing.T) {
	tb := newTable(t)
	tb.must(creator, "g_create", "1|XOXO|100")
	tb.must(opponent, "g_join", "1")

	tb.must(creator, "g_move", "1|1|1")
	_, err := tb.call(creator, "g_move", "1|0|0")
	assert.ErrorIs(t, err, ErrNotYourTurn)
	tb.must(opponent, "g_move", "1|0|1")
	_, err = tb.call(creator, "g_move", "1|0|1")
	assert.ErrorIs(t, err, ErrInvalidMove)
	tb.must(creator, "g_move", "1|2|0")
	tb.must(opponent, "g_move", "1|1|0")
	tb.must(creator, "g_move", "1|0|2")

	g := tb.game(1)
	assert.Equal(t, Finished, g.Status)
	require.NotNil(t, g.Winner)
	assert.Equal(t, creator, *g.Winner)
	assert.Equal(t, contract.Outcome{Players: []sdk.Address{creator, opponent}, Winner: creator}, tb.arena.ended[1])

	out := tb.must(creator, "g_get", "1")
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(*out), &view))
	assert.Equal(t, "021210100", view["board"])
}

func TestTicTacToeDrawIsNotReported(t *testing.T) {
	tb := newTable(t)
	tb.must(creator, "g_create", "1|XOXO|100")
	tb.must(opponent, "g_join", "1")
	moves := []struct {
		who sdk.Address
		pos string
	}{
		{creator, "0|0"}, {opponent, "0|2"}, {creator, "0|1"},
		{opponent, "1|0"}, {creator, "1|2"}, {opponent, "1|1"},
		{creator, "2|0"}, {opponent, "2|1"}, {creator, "2|2"},
	}
	for _, m := range moves {
		tb.must(m.who, "g_move", "1|"+m.pos)
	}
	g := tb.game(1)
	assert.Equal(t, Finished, g.Status)
	assert.Nil(t, g.Winner)
	assert.Empty(t, tb.arena.ended)
}

func TestConnectFourDropsDiscs(t *testing.T) {
	tb := newTable(t)
	tb.must(creator, "g_create", "2|C4|100")
	tb.must(opponent, "g_join", "1")
	for i := 0; i < 3; i++ {
		tb.must(creator, "g_move", "1|0|0")
		tb.must(opponent, "g_move", "1|0|1")
	}
	tb.must(creator, "g_move", "1|0|0")

	g := tb.game(1)
	require.NotNil(t, g.Winner)
	assert.Equal(t, creator, *g.Winner)
	b := g.board()
	assert.Equal(t, X, b.at(5, 0))
	assert.Equal(t, X, b.at(2, 0))
	assert.Equal(t, O, b.at(3, 1))
}

func TestGomokuNeedsExactlyFive(t *testing.T) {
	b := &board{cells: make([]byte, Gomoku.boardSize()), rows: 15, cols: 15}
	for c := 0; c < 6; c++ {
		b.set(7, c, X)
	}
	assert.False(t, b.wins(7, 5, 5, true), "overline")
	assert.True(t, b.wins(7, 5, 5, false))

	b.set(7, 0, Empty)
	assert.True(t, b.wins(7, 3, 5, true))
}

func TestResignAndTimeout(t *testing.T) {
	tb := newTable(t)
	tb.must(creator, "g_create", "1|XOXO|100")
	tb.must(creator, "g_resign", "1")
	assert.Equal(t, Finished, tb.game(1).Status)
	assert.Empty(t, tb.arena.ended, "cancelled before a session existed")

	tb.must(creator, "g_create", "1|XOXO|100")
	tb.must(opponent, "g_join", "2")
	tb.must(creator, "g_resign", "2")
	assert.Equal(t, opponent, tb.arena.ended[2].Winner)

	tb.must(creator, "g_create", "1|XOXO|100")
	tb.must(opponent, "g_join", "3")
	tb.must(creator, "g_move", "3|1|1")
	_, err := tb.call(creator, "g_timeout", "3")
	assert.ErrorIs(t, err, ErrTimeoutNotReached)

	tb.chain.Advance(MoveTimeout + 1)
	_, err = tb.call(opponent, "g_timeout", "3")
	assert.ErrorIs(t, err, ErrNotPlayer, "the stalling player cannot claim")
	tb.must(creator, "g_timeout", "3")
	assert.Equal(t, creator, tb.arena.ended[3].Winner)
}

func TestExpiredSessionStillClosesTheMatch(t *testing.T) {
	tb := newTable(t)
	for i := 0; i < 3; i++ {
		tb.must(creator, "g_create", "1|XOXO|100")
		tb.must(opponent, "g_join", strconv.Itoa(i+1))
	}
	tb.must(creator, "g_move", "3|1|1")
	tb.arena.endErr = contract.ErrGameExpired

	// won on the board
	tb.must(creator, "g_move", "1|0|0")
	tb.must(opponent, "g_move", "1|1|0")
	tb.must(creator, "g_move", "1|0|1")
	tb.must(opponent, "g_move", "1|1|1")
	tb.must(creator, "g_move", "1|0|2")
	// resigned
	tb.must(opponent, "g_resign", "2")
	// timed out
	tb.chain.Advance(MoveTimeout + 1)
	tb.must(creator, "g_timeout", "3")

	for id, winner := range map[uint64]sdk.Address{1: creator, 2: creator, 3: creator} {
		g := tb.game(id)
		assert.Equal(t, Finished, g.Status, "game %d", id)
		require.NotNil(t, g.Winner, "game %d", id)
		assert.Equal(t, winner, *g.Winner, "game %d", id)
	}
	assert.Empty(t, tb.arena.ended)

	late := 0
	for _, l := range tb.chain.Logs() {
		if strings.Contains(l, `"type":"iarSettledLate"`) {
			late++
		}
		assert.NotContains(t, l, `"type":"iarWon"`)
	}
	assert.Equal(t, 3, late)
}

func TestOtherEndGameFailuresAbortTheMove(t *testing.T) {
	tb := newTable(t)
	tb.must(creator, "g_create", "1|XOXO|100")
	tb.must(opponent, "g_join", "1")
	tb.arena.endErr = contract.ErrContractPaused

	_, err := tb.call(creator, "g_resign", "1")
	assert.ErrorIs(t, err, contract.ErrContractPaused)
	g := tb.game(1)
	assert.Equal(t, InProgress, g.Status)
	assert.Nil(t, g.Winner)
}

func TestCodecRejectsTruncatedRecord(t *testing.T) {
	o := opponent
	g := &Game{ID: 4, Type: Gomoku, Name: "g", PlayerX: creator, PlayerO: &o, Wager: 1, Board: make([]byte, Gomoku.boardSize())}
	raw := encodeGame(g)
	back, err := decodeGame(4, raw)
	require.NoError(t, err)
	assert.Equal(t, g, back)

	_, err = decodeGame(4, raw[:len(raw)-1])
	assert.True(t, errors.Is(err, errCorrupt))
}
