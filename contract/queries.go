package contract

import (
	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

func (a *Arena) GetConfig() (*Config, error) { return loadConfig(a.chain) }

func (a *Arena) CurrentEpoch() (*EpochInfo, error) {
	id, err := currentEpochID(a.chain)
	if err != nil {
		return nil, err
	}
	return mustLoadEpoch(a.chain, id)
}

func (a *Arena) GetEpoch(id uint64) (*EpochInfo, error) { return mustLoadEpoch(a.chain, id) }

// GetEpochPlayer returns the player's account for an epoch, or a zero
// account if they have not played in it.
func (a *Arena) GetEpochPlayer(epochID uint64, player sdk.Address) (*EpochPlayer, error) {
	ep, found, err := loadEpochPlayer(a.chain, epochID, player)
	if err != nil {
		return nil, err
	}
	if !found {
		return &EpochPlayer{}, nil
	}
	return ep, nil
}

func (a *Arena) GetPlayer(addr sdk.Address) (*Player, bool, error) {
	return loadPlayer(a.chain, addr)
}

func (a *Arena) GetSession(id uint64) (*Session, error) {
	s, found, err := loadSession(a.chain, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %d", id)
	}
	return s, nil
}

func (a *Arena) GetGameInfo(addr sdk.Address) (*GameInfo, error) {
	gi, found, err := loadGameInfo(a.chain, addr)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrGameNotFound, "game %s", addr)
	}
	return gi, nil
}
