package inarow

import (
	"encoding/binary"
	"strconv"

	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// codecVersion increments when storage encoding changes.
const codecVersion uint8 = 1

var errCorrupt = errors.New("corrupt game record")

func gameKey(id uint64) string { return "iar:g:" + strconv.FormatUint(id, 10) }

const countKey = "iar:count"

// encodeGame serializes a game.
//
// Layout:
//
//	version | ID | Type | Status | Moves | CreatedAt | LastMoveAt | Wager | Name | X | O? | Winner? | Board
func encodeGame(g *Game) []byte {
	out := make([]byte, 0, 48+len(g.Name)+len(g.PlayerX)*3+len(g.Board))
	w16 := func(x uint16) { out = binary.BigEndian.AppendUint16(out, x) }
	w64 := func(x uint64) { out = binary.BigEndian.AppendUint64(out, x) }
	writeStr := func(s string) {
		w16(uint16(len(s)))
		out = append(out, s...)
	}
	optStr := func(a *sdk.Address) {
		if a == nil {
			out = append(out, 0)
			return
		}
		out = append(out, 1)
		writeStr(string(*a))
	}

	out = append(out, codecVersion, byte(g.Type), byte(g.Status))
	w16(g.Moves)
	w64(g.CreatedAt)
	w64(g.LastMoveAt)
	w64(uint64(g.Wager))
	out = append(out, byte(len(g.Name)))
	out = append(out, g.Name...)
	writeStr(string(g.PlayerX))
	optStr(g.PlayerO)
	optStr(g.Winner)
	return append(out, g.Board...)
}

func decodeGame(id uint64, b []byte) (*Game, error) {
	r := &rd{b: b}
	if r.u8() != codecVersion {
		return nil, errors.Wrap(errCorrupt, "unsupported version")
	}
	g := &Game{ID: id}
	g.Type = Type(r.u8())
	g.Status = Status(r.u8())
	g.Moves = r.u16()
	g.CreatedAt = r.u64()
	g.LastMoveAt = r.u64()
	g.Wager = int64(r.u64())
	g.Name = string(r.bytes(int(r.u8())))
	g.PlayerX = sdk.Address(r.str())
	if r.u8() == 1 {
		o := sdk.Address(r.str())
		g.PlayerO = &o
	}
	if r.u8() == 1 {
		w := sdk.Address(r.str())
		g.Winner = &w
	}
	if !g.Type.Valid() {
		return nil, errors.Wrapf(errCorrupt, "game %d: type %d", id, g.Type)
	}
	g.Board = append([]byte(nil), r.bytes(g.Type.boardSize())...)
	if r.bad || r.i != len(r.b) {
		return nil, errors.Wrapf(errCorrupt, "game %d", id)
	}
	return g, nil
}

// rd is a big-endian reader. Reads past the end set bad and return zeros.
type rd struct {
	b   []byte
	i   int
	bad bool
}

func (r *rd) bytes(n int) []byte {
	if r.bad || r.i+n > len(r.b) {
		r.bad = true
		return nil
	}
	v := r.b[r.i : r.i+n]
	r.i += n
	return v
}

func (r *rd) u8() uint8 {
	v := r.bytes(1)
	if v == nil {
		return 0
	}
	return v[0]
}

func (r *rd) u16() uint16 {
	v := r.bytes(2)
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint16(v)
}

func (r *rd) u64() uint64 {
	v := r.bytes(8)
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func (r *rd) str() string { return string(r.bytes(int(r.u16()))) }
