package contract

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// Entry points. Payloads are '|' separated fields, except for init and
// a_config which take JSON. The sender of a player call is the player; the
// caller of g_start/g_end is the game contract.

type handler func(a *Arena, env sdk.Env, in string) (*string, error)

var methods = map[string]handler{
	"init":          initEntry,
	"fp_select":     selectFactionEntry,
	"fp_preview":    previewEntry,
	"g_start":       startGameEntry,
	"g_end":         endGameEntry,
	"g_get":         getSessionEntry,
	"e_cycle":       cycleEpochEntry,
	"e_get":         getEpochEntry,
	"e_current":     currentEpochEntry,
	"ep_get":        getEpochPlayerEntry,
	"p_get":         getPlayerEntry,
	"r_claim":       claimRewardEntry,
	"r_claim_dev":   claimDevRewardEntry,
	"a_config":      updateConfigEntry,
	"a_game_add":    addGameEntry,
	"a_game_remove": removeGameEntry,
	"a_pause":       pauseEntry(true),
	"a_unpause":     pauseEntry(false),
	"a_admin":       setAdminEntry,
	"cfg_get":       getConfigEntry,
	"gm_get":        getGameEntry,
}

// Methods lists the exported entry point names.
func Methods() []string {
	out := make([]string, 0, len(methods))
	for m := range methods {
		out = append(out, m)
	}
	return out
}

// Dispatch runs the named entry point against a.
func Dispatch(a *Arena, method, payload string) (*string, error) {
	h, ok := methods[method]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPayload, "unknown method %q", method)
	}
	return h(a, a.chain.GetEnv(), payload)
}

// ---------- Admin ----------

func initEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	cfg, err := fromJSON[Config](in)
	if err != nil {
		return nil, err
	}
	return nil, a.Initialize(cfg)
}

func updateConfigEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	u, err := fromJSON[ConfigUpdate](in)
	if err != nil {
		return nil, err
	}
	return nil, a.UpdateConfig(u)
}

func addGameEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	game, err := parseAddress(nextField(&in), "game")
	if err != nil {
		return nil, err
	}
	dev, err := parseAddress(nextField(&in), "developer")
	if err != nil {
		return nil, err
	}
	if err := requireEnd(in); err != nil {
		return nil, err
	}
	return nil, a.AddGame(game, dev)
}

func removeGameEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	game, err := parseAddress(in, "game")
	if err != nil {
		return nil, err
	}
	return nil, a.RemoveGame(game)
}

func pauseEntry(paused bool) handler {
	return func(a *Arena, _ sdk.Env, in string) (*string, error) {
		if err := requireEnd(in); err != nil {
			return nil, err
		}
		return nil, a.SetPaused(paused)
	}
}

func setAdminEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	admin, err := parseAddress(in, "admin")
	if err != nil {
		return nil, err
	}
	return nil, a.SetAdmin(admin)
}

// ---------- Players ----------

func selectFactionEntry(a *Arena, env sdk.Env, in string) (*string, error) {
	f, err := parseU64(in, "faction")
	if err != nil {
		return nil, err
	}
	if f >= FactionCount {
		return nil, ErrInvalidFaction
	}
	return nil, a.SelectFaction(env.Sender, Faction(f))
}

func previewEntry(a *Arena, env sdk.Env, in string) (*string, error) {
	player := env.Sender
	if in != "" {
		player = sdk.Address(in)
	}
	fp, err := a.PreviewFP(player)
	if err != nil {
		return nil, err
	}
	return i64Ptr(fp), nil
}

func claimRewardEntry(a *Arena, env sdk.Env, in string) (*string, error) {
	epochID, err := parseU64(in, "epoch")
	if err != nil {
		return nil, err
	}
	reward, err := a.ClaimEpochReward(env.Sender, epochID)
	if err != nil {
		return nil, err
	}
	return i64Ptr(reward), nil
}

func claimDevRewardEntry(a *Arena, env sdk.Env, in string) (*string, error) {
	game, err := parseAddress(nextField(&in), "game")
	if err != nil {
		return nil, err
	}
	epochID, err := parseU64(nextField(&in), "epoch")
	if err != nil {
		return nil, err
	}
	if err := requireEnd(in); err != nil {
		return nil, err
	}
	reward, err := a.ClaimDevReward(env.Sender, game, epochID)
	if err != nil {
		return nil, err
	}
	return i64Ptr(reward), nil
}

// ---------- Games ----------

// g_start: <sessionId>|<player>|<wager>|<player>|<wager>...
func startGameEntry(a *Arena, env sdk.Env, in string) (*string, error) {
	id, err := parseU64(nextField(&in), "session")
	if err != nil {
		return nil, err
	}
	var players []sdk.Address
	var wagers []int64
	for in != "" {
		p, err := parseAddress(nextField(&in), "player")
		if err != nil {
			return nil, err
		}
		w, err := parseI64(nextField(&in), "wager")
		if err != nil {
			return nil, err
		}
		players = append(players, p)
		wagers = append(wagers, w)
	}
	return nil, a.StartGame(env.Caller, id, players, wagers)
}

// g_end: <sessionId>|<winner>|<player>|<player>...
func endGameEntry(a *Arena, env sdk.Env, in string) (*string, error) {
	id, err := parseU64(nextField(&in), "session")
	if err != nil {
		return nil, err
	}
	winner, err := parseAddress(nextField(&in), "winner")
	if err != nil {
		return nil, err
	}
	outcome := Outcome{Winner: winner}
	for in != "" {
		p, err := parseAddress(nextField(&in), "player")
		if err != nil {
			return nil, err
		}
		outcome.Players = append(outcome.Players, p)
	}
	return nil, a.EndGame(env.Caller, id, outcome)
}

// ---------- Epochs ----------

func cycleEpochEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	var expected *uint64
	if in != "" {
		id, err := parseU64(in, "epoch")
		if err != nil {
			return nil, err
		}
		expected = &id
	}
	e, err := a.CycleEpoch(expected)
	if err != nil {
		return nil, err
	}
	return toJSON(e)
}

// ---------- Queries ----------

func getConfigEntry(a *Arena, _ sdk.Env, _ string) (*string, error) {
	cfg, err := a.GetConfig()
	if err != nil {
		return nil, err
	}
	return toJSON(cfg)
}

func getEpochEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	id, err := parseU64(in, "epoch")
	if err != nil {
		return nil, err
	}
	e, err := a.GetEpoch(id)
	if err != nil {
		return nil, err
	}
	return toJSON(e)
}

func currentEpochEntry(a *Arena, _ sdk.Env, _ string) (*string, error) {
	e, err := a.CurrentEpoch()
	if err != nil {
		return nil, err
	}
	return toJSON(e)
}

func getEpochPlayerEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	id, err := parseU64(nextField(&in), "epoch")
	if err != nil {
		return nil, err
	}
	player, err := parseAddress(nextField(&in), "player")
	if err != nil {
		return nil, err
	}
	ep, err := a.GetEpochPlayer(id, player)
	if err != nil {
		return nil, err
	}
	return toJSON(ep)
}

func getPlayerEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	addr, err := parseAddress(in, "player")
	if err != nil {
		return nil, err
	}
	p, found, err := a.GetPlayer(addr)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return toJSON(p)
}

func getSessionEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	id, err := parseU64(in, "session")
	if err != nil {
		return nil, err
	}
	s, err := a.GetSession(id)
	if err != nil {
		return nil, err
	}
	return toJSON(s)
}

func getGameEntry(a *Arena, _ sdk.Env, in string) (*string, error) {
	addr, err := parseAddress(in, "game")
	if err != nil {
		return nil, err
	}
	gi, err := a.GetGameInfo(addr)
	if err != nil {
		return nil, err
	}
	return toJSON(gi)
}
