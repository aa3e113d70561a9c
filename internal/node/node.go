// Package node hosts the arena, its reference game and the simulated
// collaborators on a Badger ledger. Calls are serialised; each runs in one
// ledger transaction, is journaled and counted.
//
// The node trusts the Sender of every Call. It has no signature checks and
// is meant for local development and testing only.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"okinoko-faction_arena/contract"
	"okinoko-faction_arena/internal/config"
	"okinoko-faction_arena/internal/games/inarow"
	"okinoko-faction_arena/internal/journal"
	"okinoko-faction_arena/internal/ledger"
	"okinoko-faction_arena/internal/metrics"
	"okinoko-faction_arena/internal/router"
	"okinoko-faction_arena/internal/token"
	"okinoko-faction_arena/internal/units"
	"okinoko-faction_arena/internal/vault"
	"okinoko-faction_arena/sdk"
)

// Targets a call can address.
const (
	TargetArena  = "arena"
	TargetInARow = "inarow"
	TargetVault  = "vault"
	TargetRouter = "router"
	TargetToken  = "token"
)

var ErrUnknownTarget = errors.New("unknown target")

// Call is one signed invocation.
type Call struct {
	Target  string       `json:"target"`
	Method  string       `json:"method"`
	Payload string       `json:"payload"`
	Sender  sdk.Address  `json:"sender"`
	Intents []sdk.Intent `json:"intents,omitempty"`
}

// Result of a committed call.
type Result struct {
	TxID   string   `json:"txId"`
	Output *string  `json:"output,omitempty"`
	Events []string `json:"events"`
}

// Node owns the ledger, journal and metrics of one arena deployment.
type Node struct {
	mu      sync.Mutex
	cfg     config.Config
	store   *ledger.Store
	journal *journal.Journal
	metrics *metrics.Metrics
	log     *zap.Logger
	clock   func() time.Time
}

type Option func(*Node)

// WithClock replaces wall time as the source of block timestamps.
func WithClock(clock func() time.Time) Option {
	return func(n *Node) { n.clock = clock }
}

func New(cfg config.Config, store *ledger.Store, j *journal.Journal, m *metrics.Metrics, log *zap.Logger, opts ...Option) *Node {
	n := &Node{
		cfg:     cfg,
		store:   store,
		journal: j,
		metrics: m,
		log:     log,
		clock:   time.Now,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

func (n *Node) env(sender sdk.Address, intents []sdk.Intent) sdk.Env {
	return sdk.Env{
		Sender:    sender,
		Caller:    sender,
		TxID:      uuid.NewString(),
		Timestamp: uint64(n.clock().Unix()),
		Intents:   intents,
	}
}

// Call executes c atomically. A failed call changes nothing; render its
// error with contract.AbortMessage.
func (n *Node) Call(ctx context.Context, c Call) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	env := n.env(c.Sender, c.Intents)
	log := n.log.With(
		zap.String("tx", env.TxID),
		zap.String("target", c.Target),
		zap.String("method", c.Method),
		zap.String("sender", c.Sender.String()),
	)
	start := time.Now()
	var out *string
	logs, err := n.store.Update(env, func(chain sdk.Chain) error {
		var err error
		out, err = n.dispatch(chain, c)
		return err
	})
	elapsed := time.Since(start)

	receipt := journal.Receipt{
		TxID:       env.TxID,
		Target:     c.Target,
		Method:     c.Method,
		Payload:    c.Payload,
		Sender:     c.Sender.String(),
		Timestamp:  env.Timestamp,
		OK:         err == nil,
		DurationUS: elapsed.Microseconds(),
	}
	result := "ok"
	if err != nil {
		result = "error"
		receipt.Error = contract.AbortMessage(err)
		log.Info("call rejected", zap.String("abort", receipt.Error))
	} else {
		if out != nil {
			receipt.Result = *out
		}
		log.Debug("call committed", zap.Int("events", len(logs)), zap.Duration("took", elapsed))
		n.metrics.ObserveEvents(logs)
	}
	n.metrics.Calls.WithLabelValues(c.Target, c.Method, result).Inc()
	n.metrics.CallDuration.WithLabelValues(c.Target).Observe(elapsed.Seconds())
	if jerr := n.journal.Record(receipt, logs); jerr != nil {
		log.Warn("journal write failed", zap.Error(jerr))
	}
	if err != nil {
		return nil, err
	}
	return &Result{TxID: env.TxID, Output: out, Events: logs}, nil
}

// at rebinds chain to run as the contract at addr, called by caller.
func at(chain sdk.Chain, addr, caller sdk.Address) sdk.Chain {
	env := chain.GetEnv()
	env.ContractID = addr
	env.Caller = caller
	return sdk.WithEnv(chain, env)
}

// arena builds the arena with its collaborators over chain.
func (n *Node) arena(chain sdk.Chain, caller sdk.Address) (*contract.Arena, error) {
	a := n.cfg.Addresses
	arenaChain := at(chain, a.Arena, caller)
	tokens := token.New(arenaChain)
	v, err := vault.New(arenaChain, tokens, n.cfg.VaultConfig())
	if err != nil {
		return nil, err
	}
	r := router.New(arenaChain, tokens, n.cfg.RouterConfig(), a.Arena)
	return contract.New(arenaChain, v, r), nil
}

func (n *Node) dispatch(chain sdk.Chain, c Call) (*string, error) {
	a := n.cfg.Addresses
	sender := chain.GetEnv().Sender
	switch c.Target {
	case TargetArena:
		arena, err := n.arena(chain, sender)
		if err != nil {
			return nil, err
		}
		return contract.Dispatch(arena, c.Method, c.Payload)
	case TargetInARow:
		arena, err := n.arena(chain, a.InARow)
		if err != nil {
			return nil, err
		}
		game := inarow.New(at(chain, a.InARow, sender), arena.Game(a.InARow))
		return inarow.Dispatch(game, c.Method, c.Payload)
	case TargetVault:
		vc := at(chain, a.Vault, sender)
		v, err := vault.New(vc, token.New(vc), n.cfg.VaultConfig())
		if err != nil {
			return nil, err
		}
		return vault.Dispatch(v, c.Method, c.Payload)
	case TargetRouter:
		rc := at(chain, a.Router, sender)
		return router.Dispatch(router.New(rc, token.New(rc), n.cfg.RouterConfig(), sender), c.Method, c.Payload)
	case TargetToken:
		return token.Dispatch(token.New(chain), a.Faucet, c.Method, c.Payload)
	}
	return nil, errors.Wrapf(ErrUnknownTarget, "%q", c.Target)
}

// Initialized reports whether the arena has a config on the ledger.
func (n *Node) Initialized() (bool, error) {
	var ok bool
	err := n.store.View(n.env("", nil), func(chain sdk.Chain) error {
		arena, err := n.arena(chain, "")
		if err != nil {
			return err
		}
		_, err = arena.GetConfig()
		if errors.Is(err, contract.ErrNotInitialized) {
			return nil
		}
		ok = err == nil
		return err
	})
	return ok, err
}

// Bootstrap seeds an empty ledger from the genesis config: router
// liquidity, the arena config with epoch 0, and the in-a-row game on the
// whitelist. It does nothing once the arena is initialized.
func (n *Node) Bootstrap(ctx context.Context) error {
	ok, err := n.Initialized()
	if err != nil || ok {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cc, err := n.cfg.ContractConfig()
	if err != nil {
		return err
	}
	liquidity, err := units.ParseAmount(n.cfg.Genesis.RouterLiquidity)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	env := n.env(cc.Admin, nil)
	logs, err := n.store.Update(env, func(chain sdk.Chain) error {
		if liquidity > 0 {
			if err := token.New(chain).Mint(n.cfg.Addresses.Router, liquidity, cc.RewardToken); err != nil {
				return err
			}
		}
		arena, err := n.arena(chain, cc.Admin)
		if err != nil {
			return err
		}
		if err := arena.Initialize(cc); err != nil {
			return err
		}
		return arena.AddGame(n.cfg.Addresses.InARow, n.cfg.Genesis.InARowDeveloper)
	})
	if err != nil {
		return errors.Wrap(err, "genesis")
	}
	n.metrics.CurrentEpoch.Set(0)
	if jerr := n.journal.Record(journal.Receipt{
		TxID: env.TxID, Target: TargetArena, Method: "genesis", Sender: cc.Admin.String(),
		Timestamp: env.Timestamp, OK: true,
	}, logs); jerr != nil {
		n.log.Warn("journal write failed", zap.Error(jerr))
	}
	n.log.Info("ledger initialized",
		zap.String("arena", n.cfg.Addresses.Arena.String()),
		zap.Uint64("epochEnds", env.Timestamp+cc.EpochDuration))
	return nil
}

// CycleDue returns the current epoch when its window has elapsed.
func (n *Node) CycleDue() (*contract.EpochInfo, bool, error) {
	var (
		epoch *contract.EpochInfo
		due   bool
	)
	env := n.env("", nil)
	err := n.store.View(env, func(chain sdk.Chain) error {
		arena, err := n.arena(chain, "")
		if err != nil {
			return err
		}
		epoch, err = arena.CurrentEpoch()
		if err != nil {
			return err
		}
		due = env.Timestamp >= epoch.EndTime
		return nil
	})
	return epoch, due, err
}
