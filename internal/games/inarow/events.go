package inarow

import (
	"encoding/json"
	"strconv"

	"okinoko-faction_arena/sdk"
)

type event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func emit(chain sdk.Chain, eventType string, attributes map[string]string) {
	b, err := json.Marshal(event{Type: eventType, Attributes: attributes})
	if err != nil {
		return
	}
	chain.Log(string(b))
}

func u64s(v uint64) string { return strconv.FormatUint(v, 10) }

func EmitGameCreated(chain sdk.Chain, g *Game) {
	emit(chain, "iarCreated", map[string]string{
		"id":      u64s(g.ID),
		"type":    strconv.Itoa(int(g.Type)),
		"creator": g.PlayerX.String(),
		"wager":   strconv.FormatInt(g.Wager, 10),
	})
}

func EmitGameJoined(chain sdk.Chain, id uint64, by sdk.Address) {
	emit(chain, "iarJoined", map[string]string{"id": u64s(id), "by": by.String()})
}

func EmitMoveMade(chain sdk.Chain, id uint64, by sdk.Address, cell int) {
	emit(chain, "iarMove", map[string]string{
		"id":   u64s(id),
		"by":   by.String(),
		"cell": strconv.Itoa(cell),
	})
}

func EmitGameWon(chain sdk.Chain, id uint64, winner sdk.Address) {
	emit(chain, "iarWon", map[string]string{"id": u64s(id), "winner": winner.String()})
}

// EmitGameSettledLate marks a win the arena refused because the session's
// epoch had already ended.
func EmitGameSettledLate(chain sdk.Chain, id uint64, winner sdk.Address) {
	emit(chain, "iarSettledLate", map[string]string{"id": u64s(id), "winner": winner.String()})
}

func EmitGameDraw(chain sdk.Chain, id uint64) {
	emit(chain, "iarDraw", map[string]string{"id": u64s(id)})
}

func EmitGameResigned(chain sdk.Chain, id uint64, by sdk.Address) {
	emit(chain, "iarResigned", map[string]string{"id": u64s(id), "by": by.String()})
}

func EmitGameTimedOut(chain sdk.Chain, id uint64, timedOut sdk.Address) {
	emit(chain, "iarTimedOut", map[string]string{"id": u64s(id), "timedOut": timedOut.String()})
}
