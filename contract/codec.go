package contract

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// ---------- Binary State Codec ----------
//
// Hot records (players, epoch players, sessions, epoch games) are stored in a
// compact big-endian layout prefixed by codecVersion. Config, epochs and game
// registry entries are JSON.

// codecVersion increments when the binary layout changes.
const codecVersion uint8 = 1

const (
	flagFaction     = 1 << 0
	flagClaimed     = 1 << 1
	flagInitialized = 1 << 2
	flagBasis       = 1 << 3
)

func appendU8(dst []byte, v uint8) []byte { return append(dst, v) }

func appendU64(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

func appendI64(dst []byte, v int64) []byte { return appendU64(dst, uint64(v)) }

func appendString16(dst []byte, s string) []byte {
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(s)))
	return append(dst, s...)
}

// rd reads the layout back. The first failure sticks; callers check err()
// once at the end.
type rd struct {
	b   []byte
	i   int
	bad bool
}

func (r *rd) need(n int) bool {
	if r.bad || r.i+n > len(r.b) {
		r.bad = true
		return false
	}
	return true
}

func (r *rd) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.b[r.i]
	r.i++
	return v
}

func (r *rd) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.b[r.i:])
	r.i += 2
	return v
}

func (r *rd) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.b[r.i:])
	r.i += 8
	return v
}

func (r *rd) i64() int64 { return int64(r.u64()) }

func (r *rd) str() string {
	n := int(r.u16())
	if !r.need(n) {
		return ""
	}
	s := string(r.b[r.i : r.i+n])
	r.i += n
	return s
}

// end reports decode overflow, trailing bytes and version mismatches.
func (r *rd) end(what string) error {
	if r.bad {
		return errors.Wrapf(ErrCorruptState, "%s: decode overflow", what)
	}
	if r.i != len(r.b) {
		return errors.Wrapf(ErrCorruptState, "%s: trailing bytes", what)
	}
	return nil
}

func (r *rd) version(what string) error {
	if v := r.u8(); v != codecVersion {
		return errors.Wrapf(ErrCorruptState, "%s: unsupported version %d", what, v)
	}
	return nil
}

// ---------- Player ----------

func encodePlayer(p *Player) []byte {
	out := make([]byte, 0, 40+len(p.Address))
	out = appendU8(out, codecVersion)
	var flags, faction uint8
	if p.SelectedFaction != nil {
		flags |= flagFaction
		faction = uint8(*p.SelectedFaction)
	}
	if p.BasisSet {
		flags |= flagBasis
	}
	out = appendU8(out, flags)
	out = appendU8(out, faction)
	out = appendU64(out, p.DepositBasis)
	out = appendI64(out, p.LastBalance)
	out = appendU64(out, p.FirstSeen)
	return appendString16(out, string(p.Address))
}

func decodePlayer(b []byte) (*Player, error) {
	r := &rd{b: b}
	if err := r.version("player"); err != nil {
		return nil, err
	}
	p := &Player{}
	flags := r.u8()
	faction := Faction(r.u8())
	if flags&flagFaction != 0 {
		p.SelectedFaction = &faction
	}
	p.BasisSet = flags&flagBasis != 0
	p.DepositBasis = r.u64()
	p.LastBalance = r.i64()
	p.FirstSeen = r.u64()
	p.Address = sdk.Address(r.str())
	return p, r.end("player")
}

// ---------- EpochPlayer ----------

func encodeEpochPlayer(ep *EpochPlayer) []byte {
	out := make([]byte, 0, 27)
	out = appendU8(out, codecVersion)
	var flags, faction uint8
	if ep.EpochFaction != nil {
		flags |= flagFaction
		faction = uint8(*ep.EpochFaction)
	}
	if ep.Claimed {
		flags |= flagClaimed
	}
	if ep.Initialized {
		flags |= flagInitialized
	}
	out = appendU8(out, flags)
	out = appendU8(out, faction)
	out = appendI64(out, ep.EpochBalanceSnapshot)
	out = appendI64(out, ep.AvailableFP)
	return appendI64(out, ep.TotalFPContributed)
}

func decodeEpochPlayer(b []byte) (*EpochPlayer, error) {
	r := &rd{b: b}
	if err := r.version("epoch player"); err != nil {
		return nil, err
	}
	ep := &EpochPlayer{}
	flags := r.u8()
	faction := Faction(r.u8())
	if flags&flagFaction != 0 {
		ep.EpochFaction = &faction
	}
	ep.Claimed = flags&flagClaimed != 0
	ep.Initialized = flags&flagInitialized != 0
	ep.EpochBalanceSnapshot = r.i64()
	ep.AvailableFP = r.i64()
	ep.TotalFPContributed = r.i64()
	return ep, r.end("epoch player")
}

// ---------- Session ----------
//
// Layout:
//
//	version | ID | EpochID | Status | CreatedAt | Game | n | n*(Player, Wager) | Winner?

func encodeSession(s *Session) []byte {
	out := make([]byte, 0, 64+len(s.Players)*48)
	out = appendU8(out, codecVersion)
	out = appendU64(out, s.ID)
	out = appendU64(out, s.EpochID)
	out = appendU8(out, uint8(s.Status))
	out = appendU64(out, s.CreatedAt)
	out = appendString16(out, string(s.Game))
	out = appendU8(out, uint8(len(s.Players)))
	for i, p := range s.Players {
		out = appendString16(out, string(p))
		out = appendI64(out, s.Wagers[i])
	}
	if s.Winner != nil {
		out = appendU8(out, 1)
		out = appendString16(out, string(*s.Winner))
	} else {
		out = appendU8(out, 0)
	}
	return out
}

func decodeSession(b []byte) (*Session, error) {
	r := &rd{b: b}
	if err := r.version("session"); err != nil {
		return nil, err
	}
	s := &Session{}
	s.ID = r.u64()
	s.EpochID = r.u64()
	s.Status = SessionStatus(r.u8())
	s.CreatedAt = r.u64()
	s.Game = sdk.Address(r.str())
	n := int(r.u8())
	s.Players = make([]sdk.Address, 0, n)
	s.Wagers = make([]int64, 0, n)
	for i := 0; i < n; i++ {
		s.Players = append(s.Players, sdk.Address(r.str()))
		s.Wagers = append(s.Wagers, r.i64())
	}
	if r.u8() == 1 {
		w := sdk.Address(r.str())
		s.Winner = &w
	}
	return s, r.end("session")
}

// ---------- EpochGame ----------

func encodeEpochGame(eg *EpochGame) []byte {
	out := make([]byte, 0, 10)
	out = appendU8(out, codecVersion)
	out = appendI64(out, eg.FPContributed)
	var flags uint8
	if eg.DevClaimed {
		flags |= flagClaimed
	}
	return appendU8(out, flags)
}

func decodeEpochGame(b []byte) (*EpochGame, error) {
	r := &rd{b: b}
	if err := r.version("epoch game"); err != nil {
		return nil, err
	}
	eg := &EpochGame{FPContributed: r.i64()}
	eg.DevClaimed = r.u8()&flagClaimed != 0
	return eg, r.end("epoch game")
}
