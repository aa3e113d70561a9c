package contract

import (
	"slices"

	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// EndGame settles a started session. The winner's wager is credited to their
// faction; losing wagers stay burned.
//
// A session created in an earlier epoch can never be settled, whatever its
// status, so outcomes cannot be carried across the boundary that decides
// rewards.
func (a *Arena) EndGame(game sdk.Address, sessionID uint64, outcome Outcome) error {
	if _, err := a.liveConfig(); err != nil {
		return err
	}
	s, found, err := loadSession(a.chain, sessionID)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrSessionNotFound, "session %d", sessionID)
	}
	if s.Game != game {
		return errors.Wrapf(ErrNotSessionGame, "session %d", sessionID)
	}
	gi, err := a.requireWhitelisted(game)
	if err != nil {
		return err
	}
	epochID, err := currentEpochID(a.chain)
	if err != nil {
		return err
	}
	if s.EpochID != epochID {
		return errors.Wrapf(ErrGameExpired, "session %d from epoch %d, current %d", sessionID, s.EpochID, epochID)
	}
	if s.Status != SessionStarted {
		return errors.Wrapf(ErrInvalidSessionState, "session %d", sessionID)
	}
	if !slices.Equal(outcome.Players, s.Players) {
		return errors.Wrap(ErrInvalidGameOutcome, "participants do not match session")
	}
	idx := slices.Index(s.Players, outcome.Winner)
	if idx < 0 {
		return errors.Wrapf(ErrInvalidGameOutcome, "winner %s is not a participant", outcome.Winner)
	}

	e, err := mustLoadEpoch(a.chain, epochID)
	if err != nil {
		return err
	}
	ep, found, err := loadEpochPlayer(a.chain, epochID, outcome.Winner)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrCorruptState, "no epoch account for %s", outcome.Winner)
	}
	eg, err := loadEpochGame(a.chain, epochID, game)
	if err != nil {
		return err
	}
	credited := s.Wagers[idx]
	if err := creditContribution(e, ep, eg, gi, credited); err != nil {
		return err
	}

	winner := outcome.Winner
	s.Status = SessionEnded
	s.Winner = &winner

	if err := saveEpoch(a.chain, e); err != nil {
		return err
	}
	if err := saveGameInfo(a.chain, gi); err != nil {
		return err
	}
	saveEpochPlayer(a.chain, epochID, winner, ep)
	saveEpochGame(a.chain, epochID, game, eg)
	saveSession(a.chain, s)
	EmitGameEnded(a.chain, s, winner, credited)
	return nil
}
