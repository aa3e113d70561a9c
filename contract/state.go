package contract

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// kv is the slice of sdk.Chain that storage helpers need. Both the chain and
// a stage satisfy it.
type kv interface {
	StateGetObject(key string) *string
	StateSetObject(key, value string)
}

// ---------- Keys ----------
//
//	cfg                  Config (JSON)
//	e:current            current epoch id
//	e:<id>               EpochInfo (JSON)
//	p:<addr>             Player (binary)
//	ep:<id>:<addr>       EpochPlayer (binary)
//	s:<id>               Session (binary)
//	gm:<addr>            GameInfo (JSON)
//	eg:<id>:<addr>       EpochGame (binary)

const (
	configKey       = "cfg"
	currentEpochKey = "e:current"
)

func u64s(v uint64) string { return strconv.FormatUint(v, 10) }

func epochKey(id uint64) string { return "e:" + u64s(id) }
func playerKey(a sdk.Address) string { return "p:" + string(a) }
func sessionKey(id uint64) string { return "s:" + u64s(id) }
func gameKey(a sdk.Address) string { return "gm:" + string(a) }
func epochPlayerKey(id uint64, a sdk.Address) string { return "ep:" + u64s(id) + ":" + string(a) }
func epochGameKey(id uint64, a sdk.Address) string { return "eg:" + u64s(id) + ":" + string(a) }

func get(store kv, key string) (string, bool) {
	ptr := store.StateGetObject(key)
	if ptr == nil || *ptr == "" {
		return "", false
	}
	return *ptr, true
}

func loadJSON[T any](store kv, key string) (*T, bool, error) {
	raw, ok := get(store, key)
	if !ok {
		return nil, false, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, errors.Wrapf(ErrCorruptState, "%s: %v", key, err)
	}
	return &v, true, nil
}

func saveJSON(store kv, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(ErrCorruptState, "marshal %s: %v", key, err)
	}
	store.StateSetObject(key, string(b))
	return nil
}

// ---------- Config ----------

func loadConfig(store kv) (*Config, error) {
	cfg, ok, err := loadJSON[Config](store, configKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

func saveConfig(store kv, cfg *Config) error { return saveJSON(store, configKey, cfg) }

// ---------- Epochs ----------

func currentEpochID(store kv) (uint64, error) {
	raw, ok := get(store, currentEpochKey)
	if !ok {
		return 0, ErrNotInitialized
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrCorruptState, "current epoch %q", raw)
	}
	return id, nil
}

func setCurrentEpochID(store kv, id uint64) { store.StateSetObject(currentEpochKey, u64s(id)) }

func loadEpoch(store kv, id uint64) (*EpochInfo, bool, error) {
	return loadJSON[EpochInfo](store, epochKey(id))
}

func mustLoadEpoch(store kv, id uint64) (*EpochInfo, error) {
	e, ok, err := loadEpoch(store, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrEpochNotFound, "epoch %d", id)
	}
	return e, nil
}

func saveEpoch(store kv, e *EpochInfo) error { return saveJSON(store, epochKey(e.ID), e) }

// ---------- Players ----------

func loadPlayer(store kv, addr sdk.Address) (*Player, bool, error) {
	raw, ok := get(store, playerKey(addr))
	if !ok {
		return nil, false, nil
	}
	p, err := decodePlayer([]byte(raw))
	return p, err == nil, err
}

func savePlayer(store kv, p *Player) {
	store.StateSetObject(playerKey(p.Address), string(encodePlayer(p)))
}

func loadEpochPlayer(store kv, epoch uint64, addr sdk.Address) (*EpochPlayer, bool, error) {
	raw, ok := get(store, epochPlayerKey(epoch, addr))
	if !ok {
		return nil, false, nil
	}
	ep, err := decodeEpochPlayer([]byte(raw))
	return ep, err == nil, err
}

func saveEpochPlayer(store kv, epoch uint64, addr sdk.Address, ep *EpochPlayer) {
	store.StateSetObject(epochPlayerKey(epoch, addr), string(encodeEpochPlayer(ep)))
}

// ---------- Sessions ----------

func loadSession(store kv, id uint64) (*Session, bool, error) {
	raw, ok := get(store, sessionKey(id))
	if !ok {
		return nil, false, nil
	}
	s, err := decodeSession([]byte(raw))
	return s, err == nil, err
}

func saveSession(store kv, s *Session) {
	store.StateSetObject(sessionKey(s.ID), string(encodeSession(s)))
}

// ---------- Games ----------

func loadGameInfo(store kv, addr sdk.Address) (*GameInfo, bool, error) {
	return loadJSON[GameInfo](store, gameKey(addr))
}

func saveGameInfo(store kv, g *GameInfo) error { return saveJSON(store, gameKey(g.Address), g) }

func loadEpochGame(store kv, epoch uint64, addr sdk.Address) (*EpochGame, error) {
	raw, ok := get(store, epochGameKey(epoch, addr))
	if !ok {
		return &EpochGame{}, nil
	}
	return decodeEpochGame([]byte(raw))
}

func saveEpochGame(store kv, epoch uint64, addr sdk.Address, eg *EpochGame) {
	store.StateSetObject(epochGameKey(epoch, addr), string(encodeEpochGame(eg)))
}
