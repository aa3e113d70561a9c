package contract

import "okinoko-faction_arena/sdk"

// Faction is one of the three competing teams. There is no dynamic faction
// creation.
type Faction uint8

const (
	WholeNoodle Faction = 0
	PointyStick Faction = 1
	SpecialRock Faction = 2

	FactionCount = 3
)

func (f Faction) Valid() bool { return f < FactionCount }

func (f Faction) String() string {
	switch f {
	case WholeNoodle:
		return "whole_noodle"
	case PointyStick:
		return "pointy_stick"
	case SpecialRock:
		return "special_rock"
	}
	return "invalid"
}

// SessionStatus is the lifecycle state of a game session.
type SessionStatus uint8

const (
	SessionStarted SessionStatus = 1
	SessionEnded   SessionStatus = 2
)

// Config is the singleton contract configuration, mutated only by admin
// operations.
type Config struct {
	Admin       sdk.Address `json:"admin"`
	Vault       sdk.Address `json:"vault"`
	Router      sdk.Address `json:"router"`
	RewardToken sdk.Asset   `json:"rewardToken"`
	YieldToken  sdk.Asset   `json:"yieldToken"`
	// EpochDuration is in seconds; changes apply from the next epoch on.
	EpochDuration     uint64   `json:"epochDuration"`
	DevShareBps       uint32   `json:"devShareBps"`
	FreeFPPerEpoch    int64    `json:"freeFpPerEpoch"`
	MinDepositToClaim int64    `json:"minDepositToClaim"`
	ReserveIDs        []uint32 `json:"reserveIds"`
	SwapSlippageBps   uint32   `json:"swapSlippageBps"`
	// SwapDeadline is the number of seconds a yield swap stays valid.
	SwapDeadline uint64 `json:"swapDeadline"`
	Paused       bool   `json:"paused"`
}

// Player is the minimal cross-epoch record kept for every address that has
// interacted with the arena.
type Player struct {
	Address         sdk.Address
	SelectedFaction *Faction
	// DepositBasis is the time the deposit clock started; only valid when
	// BasisSet is true.
	DepositBasis uint64
	BasisSet     bool
	// LastBalance is the vault balance seen at the previous tracked interaction.
	LastBalance int64
	FirstSeen   uint64
}

// EpochInfo is one accrual window. Finalized epochs are immutable.
type EpochInfo struct {
	ID               uint64              `json:"id"`
	StartTime        uint64              `json:"startTime"`
	EndTime          uint64              `json:"endTime"`
	FactionStandings [FactionCount]int64 `json:"factionStandings"`
	RewardPool       int64               `json:"rewardPool"`
	DevRewardPool    int64               `json:"devRewardPool"`
	WinningFaction   *Faction            `json:"winningFaction,omitempty"`
	TotalGameFP      int64               `json:"totalGameFp"`
	IsFinalized      bool                `json:"isFinalized"`
	YieldClaimed     int64               `json:"yieldClaimed"`
	SwapProceeds     int64               `json:"swapProceeds"`
}

// EpochPlayer is a player's FP account for one epoch.
type EpochPlayer struct {
	EpochFaction         *Faction
	EpochBalanceSnapshot int64
	AvailableFP          int64
	TotalFPContributed   int64
	Claimed              bool
	Initialized          bool
}

// Session is a single wagered game between two or more players.
type Session struct {
	ID        uint64
	Game      sdk.Address
	Players   []sdk.Address
	Wagers    []int64
	EpochID   uint64
	Status    SessionStatus
	Winner    *sdk.Address
	CreatedAt uint64
}

// GameInfo is the registry entry of a game contract.
type GameInfo struct {
	Address     sdk.Address `json:"address"`
	Whitelisted bool        `json:"whitelisted"`
	Developer   sdk.Address `json:"developer"`
	// TotalFPContributed is the all-time winning FP settled through the game.
	TotalFPContributed int64  `json:"totalFpContributed"`
	AddedAt            uint64 `json:"addedAt"`
}

// EpochGame tracks a game's contribution within one epoch for the
// developer reward split.
type EpochGame struct {
	FPContributed int64
	DevClaimed    bool
}

// Outcome is what a game reports when a session ends.
type Outcome struct {
	Players []sdk.Address
	Winner  sdk.Address
}
