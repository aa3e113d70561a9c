// Package inarow is the reference arena game: two players stake faction
// points on a match of TicTacToe, ConnectFour or Gomoku. Sessions are opened
// and settled through the arena's game interface.
package inarow

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// ---------- Types & Constants ----------

// Type selects the ruleset and board size.
type Type uint8

const (
	// TicTacToe is a 3x3 game where 3 marks in a row win.
	TicTacToe Type = 1
	// ConnectFour is a 6x7 vertical drop game where 4 in a row win.
	ConnectFour Type = 2
	// Gomoku is a 15x15 grid where exactly 5 in a row win.
	Gomoku Type = 3
)

func (t Type) Valid() bool { return t >= TicTacToe && t <= Gomoku }

// dims returns rows and cols for each ruleset.
func (t Type) dims() (rows, cols int) {
	switch t {
	case TicTacToe:
		return 3, 3
	case ConnectFour:
		return 6, 7
	case Gomoku:
		return 15, 15
	}
	return 0, 0
}

// winLength returns the line length that wins and whether longer lines are
// excluded (gomoku rule).
func (t Type) winLength() (int, bool) {
	switch t {
	case TicTacToe:
		return 3, false
	case ConnectFour:
		return 4, false
	case Gomoku:
		return 5, true
	}
	return 0, false
}

// boardSize is the number of bytes needed at 2 bits per cell.
func (t Type) boardSize() int {
	rows, cols := t.dims()
	return (rows*cols + 3) / 4
}

// Cell is the state of one board cell, stored as 2 bits.
type Cell uint8

const (
	Empty Cell = 0
	X     Cell = 1 // first player
	O     Cell = 2 // second player
)

// Status is the lifecycle state of a match.
type Status uint8

const (
	WaitingForPlayer Status = 0
	InProgress       Status = 1
	Finished         Status = 2
)

// MoveTimeout is how long a player may stall before the opponent can claim
// the win.
const MoveTimeout uint64 = 24 * 3600

// MaxNameLength bounds the game name so it fits the one-byte length prefix.
const MaxNameLength = 255

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidType       = errors.New("invalid game type")
	ErrInvalidArgs       = errors.New("invalid arguments")
	ErrWrongState        = errors.New("game is not in the required state")
	ErrNotPlayer         = errors.New("not a player")
	ErrCreatorCannotJoin = errors.New("creator cannot join")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidMove       = errors.New("invalid move")
	ErrTimeoutNotReached = errors.New("timeout not reached")
)

// ---------- Game ----------

// Game is a single match. The session id registered with the arena is the
// game ID.
type Game struct {
	ID      uint64       `json:"id"`
	Type    Type         `json:"type"`
	Name    string       `json:"name"`
	PlayerX sdk.Address  `json:"playerX"`
	PlayerO *sdk.Address `json:"playerO,omitempty"`
	// Wager is the FP each player stakes.
	Wager      int64        `json:"wager"`
	Board      []byte       `json:"-"`
	Moves      uint16       `json:"moves"`
	Status     Status       `json:"status"`
	Winner     *sdk.Address `json:"winner,omitempty"`
	CreatedAt  uint64       `json:"createdAt"`
	LastMoveAt uint64       `json:"lastMoveAt"`
}

func (g *Game) players() []sdk.Address {
	if g.PlayerO == nil {
		return []sdk.Address{g.PlayerX}
	}
	return []sdk.Address{g.PlayerX, *g.PlayerO}
}

func (g *Game) isPlayer(addr sdk.Address) bool {
	return addr == g.PlayerX || (g.PlayerO != nil && addr == *g.PlayerO)
}

// markOf returns the mark addr plays with.
func (g *Game) markOf(addr sdk.Address) Cell {
	switch {
	case addr == g.PlayerX:
		return X
	case g.PlayerO != nil && addr == *g.PlayerO:
		return O
	}
	return Empty
}

// playerWith returns the address playing mark.
func (g *Game) playerWith(mark Cell) sdk.Address {
	if mark == X {
		return g.PlayerX
	}
	return *g.PlayerO
}

// nextToPlay returns X or O based on move parity (even -> X, odd -> O).
func (g *Game) nextToPlay() Cell {
	if g.Moves%2 == 0 {
		return X
	}
	return O
}

func (g *Game) board() *board {
	rows, cols := g.Type.dims()
	return &board{cells: g.Board, rows: rows, cols: cols}
}
