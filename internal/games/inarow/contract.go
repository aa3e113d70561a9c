package inarow

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/sdk"
)

// Contract is the in-a-row game bound to one invocation.
type Contract struct {
	chain sdk.Chain
	arena contract.Game
}

// New binds the game to chain. arena is the handle the arena issued for this
// game's address.
func New(chain sdk.Chain, arena contract.Game) *Contract {
	return &Contract{chain: chain, arena: arena}
}

func (c *Contract) now() uint64 { return c.chain.GetEnv().Timestamp }

func (c *Contract) load(id uint64) (*Game, error) {
	raw := c.chain.StateGetObject(gameKey(id))
	if raw == nil || *raw == "" {
		return nil, errors.Wrapf(ErrGameNotFound, "game %d", id)
	}
	return decodeGame(id, []byte(*raw))
}

func (c *Contract) save(g *Game) {
	c.chain.StateSetObject(gameKey(g.ID), string(encodeGame(g)))
}

func (c *Contract) nextID() uint64 {
	raw := c.chain.StateGetObject(countKey)
	var n uint64
	if raw != nil {
		n, _ = strconv.ParseUint(*raw, 10, 64)
	}
	c.chain.StateSetObject(countKey, strconv.FormatUint(n+1, 10))
	return n + 1
}

// Create opens a match that waits for an opponent. wager is the FP each side
// will stake once the opponent joins.
func (c *Contract) Create(sender sdk.Address, typ Type, name string, wager int64) (uint64, error) {
	if !typ.Valid() {
		return 0, errors.Wrapf(ErrInvalidType, "type %d", typ)
	}
	if len(name) > MaxNameLength || strings.Contains(name, "|") {
		return 0, errors.Wrap(ErrInvalidArgs, "name")
	}
	if wager <= 0 {
		return 0, errors.Wrap(ErrInvalidArgs, "wager must be positive")
	}
	now := c.now()
	g := &Game{
		ID:         c.nextID(),
		Type:       typ,
		Name:       name,
		PlayerX:    sender,
		Wager:      wager,
		Board:      make([]byte, typ.boardSize()),
		Status:     WaitingForPlayer,
		CreatedAt:  now,
		LastMoveAt: now,
	}
	c.save(g)
	EmitGameCreated(c.chain, g)
	return g.ID, nil
}

// Join seats the opponent and opens the arena session, which reserves both
// wagers. Arena rejections (no faction, not enough FP) fail the join.
func (c *Contract) Join(sender sdk.Address, id uint64) error {
	g, err := c.load(id)
	if err != nil {
		return err
	}
	if g.Status != WaitingForPlayer {
		return errors.Wrapf(ErrWrongState, "game %d", id)
	}
	if sender == g.PlayerX {
		return ErrCreatorCannotJoin
	}
	g.PlayerO = &sender
	g.Status = InProgress
	g.LastMoveAt = c.now()
	if err := c.arena.StartGame(g.ID, g.players(), []int64{g.Wager, g.Wager}); err != nil {
		return err
	}
	c.save(g)
	EmitGameJoined(c.chain, g.ID, sender)
	return nil
}

// Move places sender's mark. A winning move settles the arena session; a
// full board ends the match as a draw, which the arena never hears about,
// so both stakes stay burned.
func (c *Contract) Move(sender sdk.Address, id uint64, row, col int) error {
	g, err := c.load(id)
	if err != nil {
		return err
	}
	if g.Status != InProgress {
		return errors.Wrapf(ErrWrongState, "game %d", id)
	}
	mark := g.markOf(sender)
	if mark == Empty {
		return ErrNotPlayer
	}
	if mark != g.nextToPlay() {
		return ErrNotYourTurn
	}
	b := g.board()
	if !b.inside(row, col) {
		return errors.Wrapf(ErrInvalidMove, "%d,%d outside board", row, col)
	}
	if g.Type == ConnectFour {
		if row = b.drop(col); row < 0 {
			return errors.Wrap(ErrInvalidMove, "column full")
		}
	} else if b.at(row, col) != Empty {
		return errors.Wrap(ErrInvalidMove, "cell occupied")
	}
	b.set(row, col, mark)
	g.Moves++
	g.LastMoveAt = c.now()
	EmitMoveMade(c.chain, g.ID, sender, row*b.cols+col)

	winLen, exact := g.Type.winLength()
	switch {
	case b.wins(row, col, winLen, exact):
		return c.finish(g, sender)
	case int(g.Moves) >= b.rows*b.cols:
		g.Status = Finished
		c.save(g)
		EmitGameDraw(c.chain, g.ID)
		return nil
	}
	c.save(g)
	return nil
}

// Resign gives the match to the other player, or cancels a match nobody
// joined yet.
func (c *Contract) Resign(sender sdk.Address, id uint64) error {
	g, err := c.load(id)
	if err != nil {
		return err
	}
	if g.Status == Finished {
		return errors.Wrapf(ErrWrongState, "game %d", id)
	}
	if !g.isPlayer(sender) {
		return ErrNotPlayer
	}
	EmitGameResigned(c.chain, g.ID, sender)
	if g.PlayerO == nil {
		g.Status = Finished
		g.LastMoveAt = c.now()
		c.save(g)
		return nil
	}
	return c.finish(g, g.playerWith(3-g.markOf(sender)))
}

// ClaimTimeout lets the player who is not on the move take the win once the
// opponent has stalled for MoveTimeout.
func (c *Contract) ClaimTimeout(sender sdk.Address, id uint64) error {
	g, err := c.load(id)
	if err != nil {
		return err
	}
	if g.Status != InProgress {
		return errors.Wrapf(ErrWrongState, "game %d", id)
	}
	if !g.isPlayer(sender) {
		return ErrNotPlayer
	}
	if c.now() <= g.LastMoveAt+MoveTimeout {
		return ErrTimeoutNotReached
	}
	due := g.playerWith(g.nextToPlay())
	if sender == due {
		return errors.Wrap(ErrNotPlayer, "only the opponent can claim a timeout")
	}
	EmitGameTimedOut(c.chain, g.ID, due)
	return c.finish(g, sender)
}

// finish records the winner and settles the arena session. A session from
// an epoch that has since rolled over can no longer settle; the match still
// closes here and the stakes stay with the old epoch.
func (c *Contract) finish(g *Game, winner sdk.Address) error {
	g.Status = Finished
	g.Winner = &winner
	g.LastMoveAt = c.now()
	err := c.arena.EndGame(g.ID, contract.Outcome{Players: g.players(), Winner: winner})
	switch {
	case errors.Is(err, contract.ErrGameExpired):
		c.save(g)
		EmitGameSettledLate(c.chain, g.ID, winner)
		return nil
	case err != nil:
		return err
	}
	c.save(g)
	EmitGameWon(c.chain, g.ID, winner)
	return nil
}

// Get returns a match.
func (c *Contract) Get(id uint64) (*Game, error) { return c.load(id) }
