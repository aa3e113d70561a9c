package contract

import (
	"strconv"

	"github.com/pkg/errors"
)

// Category groups errors by the part of the system that rejected a call.
type Category uint8

const (
	CategoryInput      Category = 1
	CategorySession    Category = 2
	CategoryEpoch      Category = 3
	CategoryReward     Category = 4
	CategoryExternal   Category = 5
	CategoryArithmetic Category = 6
	CategoryEmergency  Category = 7
	CategoryAdmin      Category = 8
	CategoryState      Category = 9
)

// Error is a typed contract failure with a stable numeric code.
type Error struct {
	Code     uint32
	Category Category
	Msg      string
}

func (e *Error) Error() string { return e.Msg }

func newError(cat Category, code uint32, msg string) *Error {
	return &Error{Code: code, Category: cat, Msg: msg}
}

var (
	ErrNotInitialized     = newError(CategoryAdmin, 1, "contract not initialized")
	ErrAlreadyInitialized = newError(CategoryAdmin, 2, "contract already initialized")
	ErrNotAdmin           = newError(CategoryAdmin, 3, "caller is not admin")
	ErrInvalidConfig      = newError(CategoryAdmin, 4, "invalid config")

	ErrInvalidFaction            = newError(CategoryInput, 10, "invalid faction")
	ErrFactionAlreadyLocked      = newError(CategoryInput, 11, "faction already locked for epoch")
	ErrFactionNotSelected        = newError(CategoryInput, 12, "faction not selected")
	ErrInsufficientFactionPoints = newError(CategoryInput, 13, "insufficient faction points")
	ErrInvalidAmount             = newError(CategoryInput, 14, "invalid amount")
	ErrInvalidPayload            = newError(CategoryInput, 15, "invalid payload")

	ErrGameNotWhitelisted   = newError(CategorySession, 20, "game not whitelisted")
	ErrSessionNotFound      = newError(CategorySession, 21, "session not found")
	ErrSessionAlreadyExists = newError(CategorySession, 22, "session already exists")
	ErrInvalidSessionState  = newError(CategorySession, 23, "invalid session state")
	ErrInvalidGameOutcome   = newError(CategorySession, 24, "invalid game outcome")
	ErrGameExpired          = newError(CategorySession, 25, "game expired")
	ErrInvalidPlayers       = newError(CategorySession, 26, "invalid players")
	ErrNotSessionGame       = newError(CategorySession, 27, "session belongs to another game")
	ErrGameNotFound         = newError(CategorySession, 28, "game not found")

	ErrEpochNotFinalized     = newError(CategoryEpoch, 30, "epoch not finalized")
	ErrEpochAlreadyFinalized = newError(CategoryEpoch, 31, "epoch already finalized")
	ErrEpochNotReady         = newError(CategoryEpoch, 32, "epoch not ready")
	ErrEpochNotFound         = newError(CategoryEpoch, 33, "epoch not found")

	ErrNoRewardsAvailable     = newError(CategoryReward, 40, "no rewards available")
	ErrRewardAlreadyClaimed   = newError(CategoryReward, 41, "reward already claimed")
	ErrNotWinningFaction      = newError(CategoryReward, 42, "not in winning faction")
	ErrDepositRequiredToClaim = newError(CategoryReward, 43, "deposit required to claim")
	ErrNotGameDeveloper       = newError(CategoryReward, 44, "caller is not the game developer")

	ErrSwap  = newError(CategoryExternal, 50, "swap failed")
	ErrVault = newError(CategoryExternal, 51, "vault call failed")

	ErrOverflow       = newError(CategoryArithmetic, 60, "arithmetic overflow")
	ErrDivisionByZero = newError(CategoryArithmetic, 61, "division by zero")

	ErrContractPaused = newError(CategoryEmergency, 70, "contract paused")

	ErrCorruptState = newError(CategoryState, 90, "corrupt state")
)

// CodeOf returns the contract error at the root of err, if any.
func CodeOf(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AbortMessage renders err the way a failed invocation reports it:
// "<code>: <message>". Untyped errors get code 0.
func AbortMessage(err error) string {
	code := uint32(0)
	if ce, ok := CodeOf(err); ok {
		code = ce.Code
	}
	return strconv.FormatUint(uint64(code), 10) + ": " + err.Error()
}
