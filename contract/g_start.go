package contract

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// MaxPlayers bounds the participants of one session.
const MaxPlayers = 8

// requireWhitelisted returns the registry entry for an active game.
func (a *Arena) requireWhitelisted(game sdk.Address) (*GameInfo, error) {
	gi, found, err := loadGameInfo(a.chain, game)
	if err != nil {
		return nil, err
	}
	if !found || !gi.Whitelisted {
		return nil, errors.Wrapf(ErrGameNotWhitelisted, "game %s", game)
	}
	return gi, nil
}

func validateParticipants(players []sdk.Address, wagers []int64) error {
	if len(players) < 2 || len(players) > MaxPlayers || len(players) != len(wagers) {
		return errors.Wrapf(ErrInvalidPlayers, "%d players, %d wagers", len(players), len(wagers))
	}
	seen := make(map[sdk.Address]struct{}, len(players))
	for _, p := range players {
		if p == "" || len(p) > MaxAddressLength {
			return errors.Wrapf(ErrInvalidPlayers, "address of %d bytes", len(p))
		}
		if _, dup := seen[p]; dup {
			return errors.Wrapf(ErrInvalidPlayers, "duplicate player %s", p)
		}
		seen[p] = struct{}{}
	}
	for _, w := range wagers {
		if w <= 0 {
			return errors.Wrapf(ErrInvalidAmount, "wager %d", w)
		}
	}
	return nil
}

// StartGame opens a session for a whitelisted game and reserves every
// participant's wager. A player's first game of the epoch opens their FP
// account and locks their faction.
func (a *Arena) StartGame(game sdk.Address, sessionID uint64, players []sdk.Address, wagers []int64) error {
	cfg, err := a.liveConfig()
	if err != nil {
		return err
	}
	if _, err := a.requireWhitelisted(game); err != nil {
		return err
	}
	if _, exists, err := loadSession(a.chain, sessionID); err != nil {
		return err
	} else if exists {
		return errors.Wrapf(ErrSessionAlreadyExists, "session %d", sessionID)
	}
	if err := validateParticipants(players, wagers); err != nil {
		return err
	}
	epochID, err := currentEpochID(a.chain)
	if err != nil {
		return err
	}

	// Resolve every participant before writing anything.
	type seat struct {
		player *Player
		ep     *EpochPlayer
		fresh  bool
	}
	seats := make([]seat, len(players))
	for i, addr := range players {
		ep, found, err := loadEpochPlayer(a.chain, epochID, addr)
		if err != nil {
			return err
		}
		if found && ep.Initialized {
			seats[i] = seat{ep: ep}
			continue
		}
		p, known, err := loadPlayer(a.chain, addr)
		if err != nil {
			return err
		}
		if !known || p.SelectedFaction == nil {
			return errors.Wrapf(ErrFactionNotSelected, "player %s", addr)
		}
		seats[i] = seat{player: p, fresh: true}
	}
	for i, addr := range players {
		if seats[i].fresh {
			ep, err := a.initializeEpochFP(cfg, epochID, seats[i].player)
			if err != nil {
				return err
			}
			seats[i].ep = ep
		}
		if err := reserveFP(seats[i].ep, wagers[i]); err != nil {
			return errors.Wrapf(err, "player %s", addr)
		}
	}

	for i, addr := range players {
		if seats[i].fresh {
			savePlayer(a.chain, seats[i].player)
		}
		saveEpochPlayer(a.chain, epochID, addr, seats[i].ep)
	}
	s := &Session{
		ID:        sessionID,
		Game:      game,
		Players:   append([]sdk.Address(nil), players...),
		Wagers:    append([]int64(nil), wagers...),
		EpochID:   epochID,
		Status:    SessionStarted,
		CreatedAt: a.now(),
	}
	saveSession(a.chain, s)
	EmitGameStarted(a.chain, s)
	return nil
}
