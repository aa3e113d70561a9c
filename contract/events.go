package contract

import (
	"encoding/json"
	"strconv"

	"okinoko-faction_arena/sdk"
)

// Event is the common structure for all emitted events.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// emitEvent logs an event to the chain as JSON.
func emitEvent(chain sdk.Chain, eventType string, attributes map[string]string) {
	b, err := json.Marshal(Event{Type: eventType, Attributes: attributes})
	if err != nil {
		return
	}
	chain.Log(string(b))
}

func i64s(v int64) string { return strconv.FormatInt(v, 10) }

func EmitFactionSelected(chain sdk.Chain, player sdk.Address, f Faction) {
	emitEvent(chain, "factionSelected", map[string]string{
		"player":  player.String(),
		"faction": f.String(),
	})
}

// EmitEpochFPInitialized is emitted on a player's first game of an epoch,
// when the faction gets locked.
func EmitEpochFPInitialized(chain sdk.Chain, epoch uint64, player sdk.Address, f Faction, balance, fp int64) {
	emitEvent(chain, "epochFPInitialized", map[string]string{
		"epoch":   u64s(epoch),
		"player":  player.String(),
		"faction": f.String(),
		"balance": i64s(balance),
		"fp":      i64s(fp),
	})
}

func EmitBasisReset(chain sdk.Chain, player sdk.Address, previous, current int64) {
	emitEvent(chain, "basisReset", map[string]string{
		"player":   player.String(),
		"previous": i64s(previous),
		"current":  i64s(current),
	})
}

func EmitGameStarted(chain sdk.Chain, s *Session) {
	attrs := map[string]string{
		"id":    u64s(s.ID),
		"game":  s.Game.String(),
		"epoch": u64s(s.EpochID),
	}
	for i, p := range s.Players {
		attrs["player"+strconv.Itoa(i)] = p.String()
		attrs["wager"+strconv.Itoa(i)] = i64s(s.Wagers[i])
	}
	emitEvent(chain, "gameStarted", attrs)
}

func EmitGameEnded(chain sdk.Chain, s *Session, winner sdk.Address, credited int64) {
	emitEvent(chain, "gameEnded", map[string]string{
		"id":       u64s(s.ID),
		"game":     s.Game.String(),
		"winner":   winner.String(),
		"credited": i64s(credited),
	})
}

func EmitEpochCycled(chain sdk.Chain, e *EpochInfo, next uint64) {
	emitEvent(chain, "epochCycled", map[string]string{
		"epoch":      u64s(e.ID),
		"winner":     e.WinningFaction.String(),
		"rewardPool": i64s(e.RewardPool),
		"devPool":    i64s(e.DevRewardPool),
		"yield":      i64s(e.YieldClaimed),
		"next":       u64s(next),
	})
}

func EmitRewardClaimed(chain sdk.Chain, epoch uint64, player sdk.Address, amount int64) {
	emitEvent(chain, "rewardClaimed", map[string]string{
		"epoch":  u64s(epoch),
		"player": player.String(),
		"amount": i64s(amount),
	})
}

func EmitDevRewardClaimed(chain sdk.Chain, epoch uint64, game, developer sdk.Address, amount int64) {
	emitEvent(chain, "devRewardClaimed", map[string]string{
		"epoch":     u64s(epoch),
		"game":      game.String(),
		"developer": developer.String(),
		"amount":    i64s(amount),
	})
}

func EmitGameAdded(chain sdk.Chain, game, developer sdk.Address) {
	emitEvent(chain, "gameAdded", map[string]string{
		"game":      game.String(),
		"developer": developer.String(),
	})
}

func EmitGameRemoved(chain sdk.Chain, game sdk.Address) {
	emitEvent(chain, "gameRemoved", map[string]string{"game": game.String()})
}

func EmitPaused(chain sdk.Chain, paused bool, by sdk.Address) {
	t := "unpaused"
	if paused {
		t = "paused"
	}
	emitEvent(chain, t, map[string]string{"by": by.String()})
}

func EmitConfigUpdated(chain sdk.Chain, by sdk.Address) {
	emitEvent(chain, "configUpdated", map[string]string{"by": by.String()})
}
